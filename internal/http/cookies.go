package httpx

import (
	"net/http"
	"time"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
)

// Session cookie names and lifetimes. The access token tracks the upstream
// token lifetime (15 minutes); the refresh token lives for 7 days.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	accessTokenMaxAge  = 900
	refreshTokenMaxAge = 604800
)

// SessionCookieManager sets and clears the HTTP-only session cookie pair.
type SessionCookieManager struct {
	// Domain for session cookies. Leave empty to use the request domain.
	Domain string
	// Secure marks cookies as HTTPS-only. Disabled in development so the
	// frontend can run on plain http://localhost.
	Secure bool
}

// Attach writes the access and refresh token cookies for the session.
// A nil session or an empty token leaves the corresponding cookie untouched.
func (m *SessionCookieManager) Attach(w http.ResponseWriter, session *domainauth.Session) {
	if session == nil {
		return
	}
	if session.AccessToken != "" {
		http.SetCookie(w, m.cookie(AccessTokenCookie, session.AccessToken, accessTokenMaxAge))
	}
	if session.RefreshToken != "" {
		http.SetCookie(w, m.cookie(RefreshTokenCookie, session.RefreshToken, refreshTokenMaxAge))
	}
}

// Clear deletes both session cookies with attributes matching how they were
// set, so browsers drop them reliably. Safe when the cookies were never set.
func (m *SessionCookieManager) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c := m.cookie(name, "", -1)
		c.Expires = time.Unix(0, 0).UTC()
		http.SetCookie(w, c)
	}
}

func (m *SessionCookieManager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   m.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
