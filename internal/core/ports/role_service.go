package ports

import (
	"context"

	"github.com/safevault/safevault-api/internal/core/domain"
)

type RoleService interface {
	// Bootstrap idempotently creates the given roles, skipping any that
	// already exist. Run once at process start.
	Bootstrap(ctx context.Context, names []string) error

	Create(ctx context.Context, name string) error
	Assign(ctx context.Context, email, name string) error
	Remove(ctx context.Context, email, name string) error
	ListAll(ctx context.Context) ([]domain.Role, error)

	// GetUserRoles resolves the current role memberships of the account.
	GetUserRoles(ctx context.Context, email string) ([]string, error)
}
