package config

import (
	"fmt"

	"github.com/ridewise/carpool-auth/jwks"
	"github.com/ridewise/carpool-auth/logger"
	"github.com/ridewise/carpool-auth/password"
	"github.com/ridewise/carpool-auth/redis"
	"github.com/ridewise/carpool-auth/token"
	"github.com/ridewise/carpool-auth/version"
)

// Config is the root configuration of the authentication service.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging  logger.Config   `yaml:"logging" mapstructure:"logging"`
	Token    token.Config    `yaml:"token" mapstructure:"token"`
	Password password.Config `yaml:"password" mapstructure:"password"`
	JWKS     jwks.Config     `yaml:"jwks" mapstructure:"jwks"`
	Redis    redis.Config    `yaml:"redis" mapstructure:"redis"`
}

// ApplyDefaults applies default values to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "carpool-auth"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Token.ApplyDefaults()
	c.Password.ApplyDefaults()
	c.JWKS.ApplyDefaults()
	c.Redis.ApplyDefaults()
}

// Validate validates every section and reports the first failure.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Token.Validate(); err != nil {
		return fmt.Errorf("config.token: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("config.password: %w", err)
	}
	if c.JWKS.JWKSURL != "" || c.JWKS.Issuer != "" {
		if err := c.JWKS.Validate(); err != nil {
			return fmt.Errorf("config.jwks: %w", err)
		}
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("config.redis: %w", err)
	}
	return nil
}
