package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/safevault/safevault-api/internal/core/ports"
)

// RoleHandler exposes role administration. All routes are mounted behind
// Auth + RBAC(Admin) in the router.
type RoleHandler struct {
	roleService ports.RoleService
}

func NewRoleHandler(roleService ports.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

type createRoleRequest struct {
	Name string `json:"name" validate:"required"`
}

type roleMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"required"`
}

type userRolesResponse struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// ListAll returns every role in the system.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Success      200  {array}  domain.Role
// @Router       /roles [get]
func (h *RoleHandler) ListAll(c echo.Context) error {
	roles, err := h.roleService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// Create adds a new role.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      createRoleRequest  true  "Role name"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.roleService.Create(c.Request().Context(), req.Name); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "role created", "name": req.Name})
}

// Assign grants a role to a user.
//
// @Summary      Assign a role to a user
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      roleMemberRequest  true  "User email and role name"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /roles/assign [post]
func (h *RoleHandler) Assign(c echo.Context) error {
	var req roleMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.roleService.Assign(c.Request().Context(), req.Email, req.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "role assigned"})
}

// Remove revokes a role from a user.
//
// @Summary      Remove a role from a user
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body      roleMemberRequest  true  "User email and role name"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /roles/remove [post]
func (h *RoleHandler) Remove(c echo.Context) error {
	var req roleMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.roleService.Remove(c.Request().Context(), req.Email, req.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "role removed"})
}

// UserRoles returns the roles currently assigned to a user.
//
// @Summary      Get a user's roles
// @Tags         roles
// @Produce      json
// @Param        email  path      string  true  "User email"
// @Success      200    {object}  userRolesResponse
// @Failure      404    {object}  map[string]string
// @Router       /roles/user/{email} [get]
func (h *RoleHandler) UserRoles(c echo.Context) error {
	email := c.Param("email")
	roles, err := h.roleService.GetUserRoles(c.Request().Context(), email)
	if err != nil {
		return err
	}
	if roles == nil {
		roles = []string{}
	}
	return c.JSON(http.StatusOK, userRolesResponse{Email: email, Roles: roles})
}
