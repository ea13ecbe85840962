package ports

import (
	"context"

	"github.com/safevault/safevault-api/internal/core/domain"
)

type AuthService interface {
	// Register runs the sequential validation gates and creates the
	// account, returning a signed token alongside the created user. Gate
	// failures surface as *domain.ValidationError with the specific
	// first-failing message.
	Register(ctx context.Context, username, email, password string) (string, *domain.User, error)

	// Login authenticates by email and password. Unknown account and
	// wrong password are indistinguishable to the caller: both return
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
