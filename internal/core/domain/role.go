package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin   = "Admin"
	RoleUser    = "User"
	RoleManager = "Manager"
)

var ErrRoleNotFound = errors.New("role not found")
var ErrRoleExists = errors.New("role already exists")
var ErrForbidden = errors.New("access forbidden")

// Role is a named grant used for access control decisions. Names are unique
// across the system.
type Role struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultRoles is the bootstrap set created once at process start when no
// explicit set is configured.
func DefaultRoles() []string {
	return []string{RoleAdmin, RoleUser, RoleManager}
}
