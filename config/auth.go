package config

import (
	"strings"
	"time"
)

// SupabaseConfig contains upstream identity provider configuration.
type SupabaseConfig struct {
	// URL is the base URL of the hosted identity provider project
	// (e.g., "https://xyzcompany.supabase.co").
	URL string `env:"SUPABASE_URL"`

	// Key is the project API key sent as apikey on every upstream call.
	Key string `env:"SUPABASE_KEY"`

	// JWTSecret is the shared secret used to verify HS256 access tokens
	// locally without an upstream round trip.
	JWTSecret string `env:"SUPABASE_JWT_SECRET"`

	// Timeout bounds most upstream calls.
	Timeout time.Duration `env:"SUPABASE_TIMEOUT" envDefault:"15s"`

	// SignUpTimeout bounds sign-up calls, which can be slow when the
	// provider sends the confirmation email inline.
	SignUpTimeout time.Duration `env:"SUPABASE_SIGNUP_TIMEOUT" envDefault:"30s"`

	// OAuthProviders is the allow-list of OAuth provider names for which
	// authorize redirects may be built.
	OAuthProviders []string `env:"OAUTH_PROVIDERS" envDefault:"google,github" envSeparator:","`
}

// Sanitize applies guardrails to upstream configuration values.
func (s *SupabaseConfig) Sanitize() {
	s.URL = strings.TrimRight(strings.TrimSpace(s.URL), "/")
	if s.Timeout <= 0 {
		s.Timeout = 15 * time.Second
	}
	if s.SignUpTimeout <= 0 {
		s.SignUpTimeout = 30 * time.Second
	}
}
