package config

import "strings"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8000"`

	// FrontendURL is the base URL of the web frontend. Email verification
	// redirects land on this origin.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// CORSOrigins is the list of origins allowed to call the API from a
	// browser. Credentials are always allowed, so "*" is not accepted.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.FrontendURL = strings.TrimRight(strings.TrimSpace(h.FrontendURL), "/")

	origins := h.CORSOrigins[:0]
	for _, o := range h.CORSOrigins {
		o = strings.TrimSpace(o)
		if o != "" && o != "*" {
			origins = append(origins, o)
		}
	}
	h.CORSOrigins = origins
}
