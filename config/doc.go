// Package config loads and validates the authentication service
// configuration.
//
// It uses Viper to load configuration from a YAML file with environment
// variable overrides, and godotenv to pick up a local .env file.
//
// # Usage
//
//	cfg, err := config.Load("carpool-auth")
//
// Environment variables override file values using underscore-separated
// paths (e.g., TOKEN_ACCESS_SECRET overrides token.access_secret).
package config
