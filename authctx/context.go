// Package authctx propagates verified token claims through a
// context.Context so handlers downstream of the authentication middleware
// can read who is calling without re-verifying the token.
//
//	// Store claims (typically in middleware)
//	ctx = authctx.Set(ctx, claims)
//
//	// Retrieve claims (in handlers)
//	claims, ok := authctx.Get(ctx)
package authctx

import (
	"context"
	"errors"

	"github.com/ridewise/carpool-auth/identity"
	"github.com/ridewise/carpool-auth/permission"
	"github.com/ridewise/carpool-auth/token"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

// claimsKey is the single key used to store claims in context.
var claimsKey = contextKey{}

// ErrNoClaims is returned when claims are not found in the context.
var ErrNoClaims = errors.New("authctx: no claims in context")

// Set stores verified claims in the context.
func Set(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Get retrieves claims from the context. Returns false when the request
// was never authenticated.
func Get(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok && claims != nil
}

// MustGet retrieves claims from the context.
// Panics if claims are missing. Use in handlers where authentication
// middleware guarantees claims exist.
func MustGet(ctx context.Context) *token.Claims {
	claims, ok := Get(ctx)
	if !ok {
		panic("authctx: claims not found in context")
	}
	return claims
}

// GetOrError retrieves claims from the context.
// Returns ErrNoClaims if claims are missing.
func GetOrError(ctx context.Context) (*token.Claims, error) {
	claims, ok := Get(ctx)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// UserID returns the authenticated user's ID, or "" when unauthenticated.
func UserID(ctx context.Context) string {
	claims, ok := Get(ctx)
	if !ok {
		return ""
	}
	return claims.Subject
}

// RoleOf returns the authenticated user's role, or "" when unauthenticated.
func RoleOf(ctx context.Context) identity.Role {
	claims, ok := Get(ctx)
	if !ok {
		return ""
	}
	return claims.Role
}

// HasPermission reports whether the authenticated caller's permissions
// match the required permission, honoring wildcards.
func HasPermission(ctx context.Context, required string) bool {
	claims, ok := Get(ctx)
	if !ok {
		return false
	}
	return permission.MatchAny(claims.Permissions, required)
}
