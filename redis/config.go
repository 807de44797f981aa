package redis

import (
	"fmt"
	"time"
)

// Config holds Redis connection configuration for the revocation and
// used-token stores. Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Enabled controls whether Redis-backed stores are used. When false the
	// in-memory stores serve single-node deployments.
	Enabled bool `mapstructure:"enabled"`

	// Addr is the Redis server address (host:port).
	Addr string `mapstructure:"addr"`

	// Password is the Redis server password.
	Password string `mapstructure:"password"`

	// DB is the Redis database number.
	DB int `mapstructure:"db"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `mapstructure:"pool_size"`

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int `mapstructure:"min_idle_conns"`

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int `mapstructure:"max_retries"`

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration `mapstructure:"dial_timeout"`

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// RevokedKeyPrefix namespaces revocation entries (default "revoked").
	RevokedKeyPrefix string `mapstructure:"revoked_key_prefix"`

	// UsedKeyPrefix namespaces consumed single-use tokens (default "used").
	UsedKeyPrefix string `mapstructure:"used_key_prefix"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
	if c.RevokedKeyPrefix == "" {
		c.RevokedKeyPrefix = "revoked"
	}
	if c.UsedKeyPrefix == "" {
		c.UsedKeyPrefix = "used"
	}
}

// Validate checks that required fields are present. A disabled config is
// always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("pool_size must be > 0")
	}
	return nil
}
