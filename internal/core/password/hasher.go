// Package password wraps bcrypt hashing and verification of stored
// credentials.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured. Cost 13
// keeps a single hash around the 100ms mark on commodity hardware, which is
// the point: brute force has to pay it too.
const DefaultCost = 13

// Hasher produces and verifies salted bcrypt digests. The zero value is not
// usable; construct with NewHasher.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given work factor. Costs outside
// bcrypt's supported range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a self-contained salted digest from plaintext. Each call draws
// fresh salt, so hashing the same input twice yields different outputs.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. The salt and
// cost are read back from the digest itself; a malformed digest counts as a
// mismatch, never an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
