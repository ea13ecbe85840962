package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/safevault/safevault-api/internal/core/domain"
)

type stubRoleService struct {
	roles     []domain.Role
	userRoles map[string][]string
	createErr error
	assignErr error
	removeErr error
}

func (s *stubRoleService) Bootstrap(_ context.Context, _ []string) error { return nil }

func (s *stubRoleService) Create(_ context.Context, _ string) error { return s.createErr }

func (s *stubRoleService) Assign(_ context.Context, _, _ string) error { return s.assignErr }

func (s *stubRoleService) Remove(_ context.Context, _, _ string) error { return s.removeErr }

func (s *stubRoleService) ListAll(_ context.Context) ([]domain.Role, error) { return s.roles, nil }

func (s *stubRoleService) GetUserRoles(_ context.Context, email string) ([]string, error) {
	roles, ok := s.userRoles[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return roles, nil
}

func TestRoleHandler_ListAll(t *testing.T) {
	svc := &stubRoleService{roles: []domain.Role{{Name: domain.RoleAdmin}, {Name: domain.RoleUser}}}
	h := NewRoleHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListAll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var roles []domain.Role
	if err := json.Unmarshal(rec.Body.Bytes(), &roles); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %v", roles)
	}
}

func TestRoleHandler_Create(t *testing.T) {
	svc := &stubRoleService{}
	h := NewRoleHandler(svc)

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/roles", strings.NewReader(`{"name":"Auditor"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRoleHandler_Assign_UnknownUser(t *testing.T) {
	svc := &stubRoleService{assignErr: domain.ErrUserNotFound}
	h := NewRoleHandler(svc)

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/roles/assign",
		strings.NewReader(`{"email":"ghost@example.com","role":"Admin"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Assign(c)
	if err == nil {
		t.Fatal("expected error to propagate to the central error handler")
	}
	if err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRoleHandler_UserRoles(t *testing.T) {
	svc := &stubRoleService{userRoles: map[string][]string{
		"alice@example.com": {domain.RoleManager},
	}}
	h := NewRoleHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/roles/user/:email")
	c.SetParamNames("email")
	c.SetParamValues("alice@example.com")

	if err := h.UserRoles(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp userRolesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != domain.RoleManager {
		t.Fatalf("unexpected roles: %v", resp.Roles)
	}
}
