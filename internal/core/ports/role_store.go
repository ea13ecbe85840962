package ports

import (
	"context"

	"github.com/safevault/safevault-api/internal/core/domain"
)

// RoleStore is the persistence collaborator for roles and their assignment to
// users.
type RoleStore interface {
	Exists(ctx context.Context, name string) (bool, error)

	// Create persists a new role; a name clash returns domain.ErrRoleExists.
	Create(ctx context.Context, name string) error

	// Assign grants the named role to the user identified by email.
	// Assigning an already-held role is a no-op.
	Assign(ctx context.Context, email, name string) error

	// Remove revokes the named role; removing an unheld role is a no-op.
	Remove(ctx context.Context, email, name string) error

	ListAll(ctx context.Context) ([]domain.Role, error)
}
