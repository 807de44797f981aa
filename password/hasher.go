// Package password provides credential hashing, verification, and the
// password-strength policy for the auth core.
//
// It defines a Hasher interface with two implementations:
//   - BcryptHasher: adaptive salted bcrypt hashing (default, cost 12)
//   - Argon2Hasher: argon2id hashing for deployments that prefer it
//
// Usage:
//
//	hasher := password.NewBcryptHasher()
//	hash, err := hasher.Hash("my-password")
//	err = hasher.Verify("my-password", hash)
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by Verify when the password does not match the
// hash. A mismatch is expected traffic, not an infrastructure failure.
var ErrMismatch = errors.New("password: invalid password")

// Hasher defines the interface for password hashing and verification.
// Hash never returns the plaintext in any form; Verify returns
// ErrMismatch on a wrong password.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// DefaultBcryptCost is the fixed work factor used unless overridden.
const DefaultBcryptCost = 12

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// BcryptOption configures the bcrypt hasher.
type BcryptOption func(*BcryptHasher)

// WithCost sets the bcrypt cost parameter (default: 12, range: 4-31).
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: DefaultBcryptCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns the bcrypt hash of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", errors.New("password: maximum length is 72 bytes (bcrypt limit)")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

// Verify compares the password against the stored hash.
func (h *BcryptHasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}
