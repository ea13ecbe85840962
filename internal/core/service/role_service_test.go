package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/safevault/safevault-api/internal/core/domain"
	"github.com/safevault/safevault-api/internal/core/ports"
)

type stubRoleStore struct {
	roles       map[string]domain.Role
	assignments map[string]map[string]struct{} // email -> role names
	createCalls int
}

func newStubRoleStore() *stubRoleStore {
	return &stubRoleStore{
		roles:       make(map[string]domain.Role),
		assignments: make(map[string]map[string]struct{}),
	}
}

func (r *stubRoleStore) Exists(_ context.Context, name string) (bool, error) {
	_, ok := r.roles[name]
	return ok, nil
}

func (r *stubRoleStore) Create(_ context.Context, name string) error {
	r.createCalls++
	if _, ok := r.roles[name]; ok {
		return domain.ErrRoleExists
	}
	r.roles[name] = domain.Role{Name: name, CreatedAt: time.Now().UTC()}
	return nil
}

func (r *stubRoleStore) Assign(_ context.Context, email, name string) error {
	if r.assignments[email] == nil {
		r.assignments[email] = make(map[string]struct{})
	}
	r.assignments[email][name] = struct{}{}
	return nil
}

func (r *stubRoleStore) Remove(_ context.Context, email, name string) error {
	delete(r.assignments[email], name)
	return nil
}

func (r *stubRoleStore) ListAll(_ context.Context) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	return out, nil
}

func seededUserStore(emails ...string) *stubUserStore {
	users := newStubUserStore()
	for _, e := range emails {
		users.users[e] = &domain.User{Username: e, Email: e}
	}
	return users
}

func TestRoleService_Bootstrap_Idempotent(t *testing.T) {
	roles := newStubRoleStore()
	svc := NewRoleService(roles, newStubUserStore(), nil, zerolog.Nop())

	if err := svc.Bootstrap(context.Background(), nil); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	for _, name := range domain.DefaultRoles() {
		if _, ok := roles.roles[name]; !ok {
			t.Fatalf("bootstrap role %q missing", name)
		}
	}

	created := roles.createCalls
	if err := svc.Bootstrap(context.Background(), nil); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	if roles.createCalls != created {
		t.Fatalf("second bootstrap created roles again: %d -> %d", created, roles.createCalls)
	}
}

func TestRoleService_Create(t *testing.T) {
	roles := newStubRoleStore()
	svc := NewRoleService(roles, newStubUserStore(), nil, zerolog.Nop())

	if err := svc.Create(context.Background(), "Auditor"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Create(context.Background(), "Auditor"); !errors.Is(err, domain.ErrRoleExists) {
		t.Fatalf("expected ErrRoleExists, got %v", err)
	}

	var ve *domain.ValidationError
	if err := svc.Create(context.Background(), ""); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty name, got %v", err)
	}
	if err := svc.Create(context.Background(), "has spaces"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for bad charset, got %v", err)
	}
}

func TestRoleService_AssignAndRemove(t *testing.T) {
	roles := newStubRoleStore()
	users := seededUserStore("alice@example.com")
	audit := &stubAudit{}
	svc := NewRoleService(roles, users, audit, zerolog.Nop())

	if err := svc.Bootstrap(context.Background(), nil); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if err := svc.Assign(context.Background(), "ghost@example.com", domain.RoleAdmin); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.Assign(context.Background(), "alice@example.com", "NoSuchRole"); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}

	if err := svc.Assign(context.Background(), "alice@example.com", domain.RoleAdmin); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if _, ok := roles.assignments["alice@example.com"][domain.RoleAdmin]; !ok {
		t.Fatal("assignment not recorded")
	}
	if ev, ok := audit.last(); !ok || ev.Action != ports.AuditRoleAssigned || ev.Detail != domain.RoleAdmin {
		t.Fatalf("expected role_assigned audit event, got %+v", audit.events)
	}

	if err := svc.Remove(context.Background(), "alice@example.com", domain.RoleAdmin); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := roles.assignments["alice@example.com"][domain.RoleAdmin]; ok {
		t.Fatal("assignment still present after removal")
	}
	if ev, _ := audit.last(); ev.Action != ports.AuditRoleRemoved {
		t.Fatalf("expected role_removed audit event, got %+v", ev)
	}
}

func TestRoleService_GetUserRoles(t *testing.T) {
	roles := newStubRoleStore()
	users := seededUserStore("alice@example.com")
	svc := NewRoleService(roles, users, nil, zerolog.Nop())

	// No roles yet: empty result, not an error.
	got, err := svc.GetUserRoles(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserRoles failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no roles, got %v", got)
	}

	users.roles["alice@example.com"] = []string{domain.RoleManager}
	got, err = svc.GetUserRoles(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserRoles failed: %v", err)
	}
	if len(got) != 1 || got[0] != domain.RoleManager {
		t.Fatalf("expected [Manager], got %v", got)
	}

	if _, err := svc.GetUserRoles(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
