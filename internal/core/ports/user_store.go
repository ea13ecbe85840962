package ports

import (
	"context"

	"github.com/safevault/safevault-api/internal/core/domain"
)

// UserStore is the persistence collaborator for accounts. Any implementation
// (Mongo-backed, in-memory, remote) satisfying these contracts is
// substitutable. Password verification is not part of the store: the
// orchestrator compares plaintext against the stored hash itself, keeping the
// store free of crypto concerns.
type UserStore interface {
	// Create persists a new user. The email must be unique; a clash
	// returns domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByEmail returns domain.ErrUserNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetRoles returns the role names currently assigned to the account.
	// An empty slice is a valid result for a user with no roles.
	GetRoles(ctx context.Context, email string) ([]string, error)
}
