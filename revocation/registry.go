package revocation

import (
	"context"
	"time"

	"github.com/ridewise/carpool-auth/password"
	"github.com/ridewise/carpool-auth/token"
)

// Registry records revoked tokens keyed by digest, with lifetime equal to
// each token's remaining natural lifetime. The store is injected so the
// same registry works over an in-memory map or Redis.
type Registry struct {
	store Store
	now   func() time.Time
}

// RegistryOption configures the Registry.
type RegistryOption func(*Registry)

// WithClock replaces the registry clock, mainly for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a Registry over the given store.
func NewRegistry(store Store, opts ...RegistryOption) *Registry {
	r := &Registry{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Revoke records the token until its natural expiry. The token is decoded
// without signature verification — a user logging out may hold a token at
// the edge of expiry, and revoking it needs only the exp claim. Tokens
// already expired are a no-op; malformed input surfaces TokenMalformed.
func (r *Registry) Revoke(ctx context.Context, tokenString string) error {
	claims, err := token.DecodeUnverified(tokenString)
	if err != nil {
		return err
	}
	remaining := claims.RemainingLifetime(r.now())
	if remaining <= 0 {
		return nil
	}
	return r.store.Put(ctx, password.HashSHA256(tokenString), remaining)
}

// IsRevoked reports whether the token was revoked and is still inside its
// natural lifetime. Implements token.RevocationChecker.
func (r *Registry) IsRevoked(ctx context.Context, tokenString string) (bool, error) {
	return r.store.Has(ctx, password.HashSHA256(tokenString))
}
