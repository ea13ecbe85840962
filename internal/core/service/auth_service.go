package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/safevault/safevault-api/internal/core/domain"
	"github.com/safevault/safevault-api/internal/core/password"
	"github.com/safevault/safevault-api/internal/core/policy"
	"github.com/safevault/safevault-api/internal/core/ports"
	"github.com/safevault/safevault-api/internal/core/token"
)

// authService composes the input policy gates, the credential hasher, the
// user store and the token issuer. It holds no mutable state and is safe for
// concurrent use.
type authService struct {
	users    ports.UserStore
	hasher   *password.Hasher
	issuer   *token.Issuer
	throttle ports.LoginThrottle
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

// NewAuthService returns an AuthService implementation. throttle and audit
// may be nil, in which case throttling and audit recording are skipped.
func NewAuthService(
	users ports.UserStore,
	hasher *password.Hasher,
	issuer *token.Issuer,
	throttle ports.LoginThrottle,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		users:    users,
		hasher:   hasher,
		issuer:   issuer,
		throttle: throttle,
		audit:    audit,
		log:      log,
	}
}

// Login runs the three-outcome authentication state machine: malformed input,
// rejected, or authenticated. A non-existent account and a wrong password are
// deliberately indistinguishable — both yield domain.ErrInvalidCredentials.
// Store I/O failures propagate as-is so callers never mistake infrastructure
// trouble for bad credentials.
func (s *authService) Login(ctx context.Context, email, pass string) (string, *domain.User, error) {
	if res := policy.ValidateLogin(email, pass); !res.Valid {
		return "", nil, domain.ErrMalformedLogin
	}

	if locked, err := s.tooManyFailures(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable, failing open")
	} else if locked {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login lookup: %w", err)
	}

	if !s.hasher.Verify(pass, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	// Resolving roles or signing can still fail here; no role-less token
	// is issued in place of the failure.
	signed, err := s.issueToken(ctx, user)
	if err != nil {
		return "", nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}
	s.enqueueAudit(ports.AuditLoginSuccess, user.Email, "")

	return signed, user, nil
}

// Register runs the sequential validation gates in order — injection safety,
// username policy, email syntax, password complexity — and short-circuits on
// the first failure with its specific message. Registration, unlike login, is
// information-rich to the caller.
func (s *authService) Register(ctx context.Context, username, email, pass string) (string, *domain.User, error) {
	if !policy.IsSafeInput(username) {
		return "", nil, &domain.ValidationError{Field: "username", Message: "username contains disallowed markup"}
	}
	if res := policy.ValidateUsername(username); !res.Valid {
		return "", nil, &domain.ValidationError{Field: "username", Message: res.Message}
	}
	if res := policy.ValidateEmail(email); !res.Valid {
		return "", nil, &domain.ValidationError{Field: "email", Message: res.Message}
	}
	if res := policy.ValidatePassword(pass); !res.Valid {
		return "", nil, &domain.ValidationError{Field: "password", Message: res.Message}
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	signed, err := s.issueToken(ctx, created)
	if err != nil {
		return "", nil, err
	}

	s.enqueueAudit(ports.AuditRegistered, created.Email, created.Username)

	return signed, created, nil
}

// issueToken resolves the user's current role memberships through the store
// (no caching) and mints a signed token embedding them.
func (s *authService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	roles, err := s.users.GetRoles(ctx, user.Email)
	if err != nil {
		return "", fmt.Errorf("resolve roles: %w", err)
	}
	signed, err := s.issuer.Issue(user, roles)
	if err != nil {
		return "", err
	}
	return signed, nil
}

func (s *authService) tooManyFailures(ctx context.Context, email string) (bool, error) {
	if s.throttle == nil {
		return false, nil
	}
	return s.throttle.TooMany(ctx, email)
}

func (s *authService) recordFailure(ctx context.Context, email string) {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to record login failure")
		}
	}
	s.enqueueAudit(ports.AuditLoginFailed, email, "")
}

func (s *authService) enqueueAudit(action, subject, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEvent{
		Action:  action,
		Subject: subject,
		Detail:  detail,
		At:      time.Now().UTC(),
	})
}
