// Package token issues and verifies the HS256 access tokens that carry
// identity and role claims. Any holder of the same key/issuer/audience triple
// can verify a token independently; role claims inside a verified token are
// trusted without a further store round trip.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/safevault/safevault-api/internal/core/domain"
)

// DefaultTTL bounds token lifetime when no expiry is configured.
const DefaultTTL = 30 * time.Minute

var (
	ErrNoKey      = errors.New("token: signing key is not configured")
	ErrNoIssuer   = errors.New("token: issuer is not configured")
	ErrNoAudience = errors.New("token: audience is not configured")
)

// Config carries the signing material shared by issuer and verifiers.
// Key, Issuer and Audience are all required.
type Config struct {
	Key      string
	Issuer   string
	Audience string
	TTL      time.Duration
}

func (c Config) check() error {
	switch {
	case c.Key == "":
		return ErrNoKey
	case c.Issuer == "":
		return ErrNoIssuer
	case c.Audience == "":
		return ErrNoAudience
	}
	return nil
}

// Claims is the claim set embedded in every issued token. Roles always
// serialises, even when empty: a user with no roles gets a token with zero
// role claims, not a missing field.
type Claims struct {
	Roles    []string `json:"roles"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	UserID   string   `json:"uid"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claim set contains the named role.
func (c *Claims) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// Issuer mints signed access tokens.
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewIssuer builds an Issuer from config. A missing key, issuer or audience
// is a configuration error; callers must treat it as fatal at startup rather
// than serve unsigned or misconfigured tokens.
func NewIssuer(cfg Config) (*Issuer, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		key:      []byte(cfg.Key),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
	}, nil
}

// Issue signs a token for the user carrying one role claim per element of
// roles. Each token gets a fresh jti nonce, so concurrent issuance for the
// same identity produces distinct, independently valid tokens.
func (i *Issuer) Issue(user *domain.User, roles []string) (string, error) {
	if roles == nil {
		roles = []string{}
	}

	now := time.Now().UTC()
	claims := Claims{
		Roles:    roles,
		Username: user.Username,
		Email:    user.Email,
		UserID:   user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verifier checks tokens against the shared key/issuer/audience triple.
type Verifier struct {
	key      []byte
	issuer   string
	audience string
}

// NewVerifier builds a Verifier from config, with the same fail-fast rules as
// NewIssuer.
func NewVerifier(cfg Config) (*Verifier, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &Verifier{
		key:      []byte(cfg.Key),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

// Verify parses raw and returns its claims. A token is valid iff the HS256
// signature matches, issuer and audience equal the configured values, and the
// expiry has not passed.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return v.key, nil
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
