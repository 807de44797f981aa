package token

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ridewise/carpool-auth/identity"
	"github.com/ridewise/carpool-auth/permission"
)

// Issuer mints signed access, refresh, and password-reset tokens.
// Each token type is signed with its own secret and lifetime.
type Issuer struct {
	cfg Config
	now func() time.Time
}

// IssuerOption configures the Issuer.
type IssuerOption func(*Issuer)

// WithIssuerClock replaces the issuance clock. Tests use it to mint
// already-expired tokens.
func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer creates a token issuer from configuration.
func NewIssuer(cfg *Config, opts ...IssuerOption) (*Issuer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	i := &Issuer{cfg: *cfg, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// IssueAccess mints a short-lived access token for the identity.
func (i *Issuer) IssueAccess(ident *identity.Identity) (string, error) {
	return i.issue(ident, TypeAccess)
}

// IssueRefresh mints a long-lived refresh token for the identity.
func (i *Issuer) IssueRefresh(ident *identity.Identity) (string, error) {
	return i.issue(ident, TypeRefresh)
}

// IssueReset mints a short-lived password-reset token. It is never
// exchanged for a session; the reset flow consumes it exactly once.
func (i *Issuer) IssueReset(ident *identity.Identity) (string, error) {
	return i.issue(ident, TypeReset)
}

// AccessTokenTTL returns the configured access-token lifetime.
func (i *Issuer) AccessTokenTTL() time.Duration {
	return i.cfg.AccessTokenTTL
}

func (i *Issuer) issue(ident *identity.Identity, typ Type) (string, error) {
	now := i.now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   ident.ID,
			Issuer:    i.cfg.Issuer,
			Audience:  gojwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(i.cfg.ttlFor(typ))),
			ID:        uuid.NewString(),
		},
		Email:       ident.Email,
		Role:        ident.Role,
		Permissions: permission.PermissionsFor(ident.Role),
		Provider:    ident.AuthProvider,
		TokenType:   typ,
	}

	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.cfg.secretFor(typ))
	if err != nil {
		return "", fmt.Errorf("token: sign %s token: %w", typ, err)
	}
	return signed, nil
}
