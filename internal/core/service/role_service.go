package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/safevault/safevault-api/internal/core/domain"
	"github.com/safevault/safevault-api/internal/core/policy"
	"github.com/safevault/safevault-api/internal/core/ports"
)

// roleService implements role administration and role-claims resolution over
// the role and user stores.
type roleService struct {
	roles ports.RoleStore
	users ports.UserStore
	audit ports.AuditRecorder
	log   zerolog.Logger
}

// NewRoleService returns a RoleService implementation. audit may be nil.
func NewRoleService(roles ports.RoleStore, users ports.UserStore, audit ports.AuditRecorder, log zerolog.Logger) ports.RoleService {
	return &roleService{roles: roles, users: users, audit: audit, log: log}
}

// Bootstrap creates each named role unless it already exists. Idempotent:
// re-running at every process start is safe.
func (s *roleService) Bootstrap(ctx context.Context, names []string) error {
	if len(names) == 0 {
		names = domain.DefaultRoles()
	}
	for _, name := range names {
		exists, err := s.roles.Exists(ctx, name)
		if err != nil {
			return fmt.Errorf("bootstrap roles: %w", err)
		}
		if exists {
			continue
		}
		if err := s.roles.Create(ctx, name); err != nil {
			// Lost a race with a concurrent replica; the role is there.
			if errors.Is(err, domain.ErrRoleExists) {
				continue
			}
			return fmt.Errorf("bootstrap roles: %w", err)
		}
		s.log.Info().Str("role", name).Msg("bootstrap role created")
	}
	return nil
}

func (s *roleService) Create(ctx context.Context, name string) error {
	if res := policy.ValidateUsername(name); !res.Valid {
		return &domain.ValidationError{Field: "role", Message: res.Message}
	}
	exists, err := s.roles.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	if exists {
		return domain.ErrRoleExists
	}
	return s.roles.Create(ctx, name)
}

func (s *roleService) Assign(ctx context.Context, email, name string) error {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return err
	}
	exists, err := s.roles.Exists(ctx, name)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	if !exists {
		return domain.ErrRoleNotFound
	}
	if err := s.roles.Assign(ctx, email, name); err != nil {
		return err
	}
	s.enqueueAudit(ports.AuditRoleAssigned, email, name)
	return nil
}

func (s *roleService) Remove(ctx context.Context, email, name string) error {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return err
	}
	if err := s.roles.Remove(ctx, email, name); err != nil {
		return err
	}
	s.enqueueAudit(ports.AuditRoleRemoved, email, name)
	return nil
}

func (s *roleService) ListAll(ctx context.Context) ([]domain.Role, error) {
	return s.roles.ListAll(ctx)
}

// GetUserRoles resolves current memberships straight from the store. No
// caching: every call reflects the assignments as of now.
func (s *roleService) GetUserRoles(ctx context.Context, email string) ([]string, error) {
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	}
	return s.users.GetRoles(ctx, email)
}

func (s *roleService) enqueueAudit(action, subject, detail string) {
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
