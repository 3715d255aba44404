package config

import "strings"

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: upstream identity provider and token configuration
//   - database.go: database and cache configuration
//   - http.go: HTTP server configuration
type AppConfig struct {
	// Environment names the deployment environment ("development",
	// "staging", "production"). Cookie Secure and .env loading key off it.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Upstream identity provider configuration
	Supabase SupabaseConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Supabase.Sanitize()
	c.HTTP.Sanitize()
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Environment == "development" || c.Environment == "dev"
}
