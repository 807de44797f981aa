// Package token implements the token lifecycle core: issuing signed access,
// refresh, and password-reset tokens, and the dual-path verifier that routes
// a presented token to local HMAC verification or federated asymmetric
// verification based on its issuer claim.
package token

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/ridewise/carpool-auth/identity"
)

// Type discriminates what a token may be used for. Access and refresh
// tokens are signed with independent secrets so one can never stand in for
// the other even though the claim shapes overlap.
type Type string

const (
	// TypeAccess is a short-lived bearer credential for API calls.
	TypeAccess Type = "access"
	// TypeRefresh is a long-lived credential exchanged for a new pair.
	TypeRefresh Type = "refresh"
	// TypeReset is a short-lived credential consumed once by a password reset.
	TypeReset Type = "password_reset"
)

// Claims is the signed claim set embedded in every locally-issued token.
// Federated tokens are normalized into the same shape after verification so
// callers are provider-agnostic downstream.
type Claims struct {
	gojwt.RegisteredClaims

	Email       string                `json:"email,omitempty"`
	Role        identity.Role         `json:"role,omitempty"`
	Permissions []string              `json:"permissions,omitempty"`
	Provider    identity.AuthProvider `json:"provider,omitempty"`
	TokenType   Type                  `json:"token_type,omitempty"`
}

// RemainingLifetime returns how long the token stays valid from now.
// Zero or negative means the token has already expired or carries no exp.
func (c *Claims) RemainingLifetime(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}
