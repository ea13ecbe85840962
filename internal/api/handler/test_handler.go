package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// TestHandler exposes small probe endpoints for exercising the token and
// RBAC contract. Route-level middleware does the actual enforcement; these
// handlers only report who got through.
type TestHandler struct{}

func NewTestHandler() *TestHandler {
	return &TestHandler{}
}

// Authenticated responds for any caller holding a valid token.
func (h *TestHandler) Authenticated(c echo.Context) error {
	username, roles, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":  "you are an authenticated user",
		"username": username,
		"roles":    roles,
	})
}

// OnlyAdmins responds for callers carrying the Admin role claim.
func (h *TestHandler) OnlyAdmins(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "only Admin can see this"})
}

// OnlyManagers responds for callers carrying the Manager role claim.
func (h *TestHandler) OnlyManagers(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "only Manager can see this"})
}

// AdminOrManager responds for callers carrying either role claim.
func (h *TestHandler) AdminOrManager(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Admin or Manager"})
}
