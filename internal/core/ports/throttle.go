package ports

import "context"

// LoginThrottle counts recent failed login attempts per account. The
// orchestrator fails open when the throttle itself errors: throttle
// unavailability must not lock legitimate users out.
type LoginThrottle interface {
	// TooMany reports whether the account has exceeded the failure budget
	// inside the current window.
	TooMany(ctx context.Context, email string) (bool, error)

	// RecordFailure counts one failed attempt.
	RecordFailure(ctx context.Context, email string) error

	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, email string) error
}
