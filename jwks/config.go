package jwks

import (
	"errors"
	"net/http"
	"time"
)

// Config configures the remote signing-key resolver.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// JWKSURL is the identity provider's key-discovery endpoint. If empty,
	// Issuer must be set and the endpoint is discovered from the issuer's
	// well-known OpenID configuration on first use.
	JWKSURL string `mapstructure:"jwks_url"`

	// Issuer is the identity provider's issuer URL, used for discovery
	// when JWKSURL is not set explicitly.
	Issuer string `mapstructure:"issuer"`

	// CacheTTL is how long fetched keys stay fresh (default: 10m).
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// MaxKeys bounds the cache size; the oldest entry is evicted on
	// overflow (default: 16).
	MaxKeys int `mapstructure:"max_keys"`

	// RefetchInterval is the minimum spacing between outbound fetches
	// (default: 10s). Cache misses inside the interval fail closed rather
	// than hammer the provider.
	RefetchInterval time.Duration `mapstructure:"refetch_interval"`

	// RefetchBurst allows short bursts of fetches (default: 3).
	RefetchBurst int `mapstructure:"refetch_burst"`

	// HTTPTimeout bounds each outbound request (default: 10s).
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// HTTPClient overrides the HTTP client, mainly for tests.
	HTTPClient *http.Client `mapstructure:"-"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.CacheTTL == 0 {
		c.CacheTTL = 10 * time.Minute
	}
	if c.MaxKeys == 0 {
		c.MaxKeys = 16
	}
	if c.RefetchInterval == 0 {
		c.RefetchInterval = 10 * time.Second
	}
	if c.RefetchBurst == 0 {
		c.RefetchBurst = 3
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.HTTPTimeout}
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.JWKSURL == "" && c.Issuer == "" {
		return errors.New("jwks: jwks_url or issuer is required")
	}
	return nil
}
