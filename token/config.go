package token

import (
	"errors"
	"time"
)

// Config configures token issuance and verification.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// AccessSecret signs access tokens (required).
	AccessSecret string `mapstructure:"access_secret"`

	// RefreshSecret signs refresh tokens (required, must differ from
	// AccessSecret so token types are not interchangeable).
	RefreshSecret string `mapstructure:"refresh_secret"`

	// ResetSecret signs password-reset tokens. Defaults to AccessSecret for
	// compatibility with deployments that never separated the two; new
	// deployments should set a dedicated secret.
	ResetSecret string `mapstructure:"reset_secret"`

	// Issuer is the "iss" claim on locally-issued tokens (required).
	Issuer string `mapstructure:"issuer"`

	// Audience is the "aud" claim on locally-issued tokens (required).
	Audience string `mapstructure:"audience"`

	// AccessTokenTTL is the lifetime of access tokens (default: 15m).
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`

	// RefreshTokenTTL is the lifetime of refresh tokens (default: 168h).
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`

	// ResetTokenTTL is the lifetime of password-reset tokens (default: 15m).
	ResetTokenTTL time.Duration `mapstructure:"reset_token_ttl"`

	// Leeway is the clock-skew allowance during verification (default: 0).
	Leeway time.Duration `mapstructure:"leeway"`

	// FederatedIssuer is the external identity provider's issuer string.
	// A presented token whose unverified "iss" equals this value takes the
	// federated verification path. Empty disables the federated path.
	FederatedIssuer string `mapstructure:"federated_issuer"`

	// FederatedClientID is the expected "aud" claim on federated tokens.
	FederatedClientID string `mapstructure:"federated_client_id"`

	// FederatedAlgs restricts federated signing algorithms (default: ["RS256"]).
	FederatedAlgs []string `mapstructure:"federated_algs"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 15 * time.Minute
	}
	if c.RefreshTokenTTL == 0 {
		c.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if c.ResetTokenTTL == 0 {
		c.ResetTokenTTL = 15 * time.Minute
	}
	if c.ResetSecret == "" {
		c.ResetSecret = c.AccessSecret
	}
	if len(c.FederatedAlgs) == 0 {
		c.FederatedAlgs = []string{"RS256"}
	}
}

// Validate checks required fields and the secret-separation invariant.
func (c *Config) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("token: access_secret is required")
	}
	if c.RefreshSecret == "" {
		return errors.New("token: refresh_secret is required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("token: access_secret and refresh_secret must differ")
	}
	if c.Issuer == "" {
		return errors.New("token: issuer is required")
	}
	if c.Audience == "" {
		return errors.New("token: audience is required")
	}
	if c.FederatedIssuer != "" && c.FederatedClientID == "" {
		return errors.New("token: federated_client_id is required when federated_issuer is set")
	}
	return nil
}

// secretFor returns the HMAC secret matching a token type.
func (c *Config) secretFor(t Type) []byte {
	switch t {
	case TypeRefresh:
		return []byte(c.RefreshSecret)
	case TypeReset:
		return []byte(c.ResetSecret)
	default:
		return []byte(c.AccessSecret)
	}
}

// ttlFor returns the configured lifetime for a token type.
func (c *Config) ttlFor(t Type) time.Duration {
	switch t {
	case TypeRefresh:
		return c.RefreshTokenTTL
	case TypeReset:
		return c.ResetTokenTTL
	default:
		return c.AccessTokenTTL
	}
}
