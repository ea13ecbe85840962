package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// ErrMalformedLogin is returned when a login attempt fails the generic shape
// check. The message is intentionally uniform: it never reveals which field
// was malformed.
var ErrMalformedLogin = errors.New("login details are incomplete or malformed")

// User models a registered account. PasswordHash is never the plaintext
// password and is only ever written at registration.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
