package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
	domainsettings "github.com/nimbuslabs/authgate/internal/domain/settings"
)

// IdentityProvider proxies credential operations to the upstream identity
// service. Every method performs at most one upstream HTTP call with a bounded
// timeout and returns a normalized Result — it never returns a Go error across
// this boundary; transport failures surface as failed Results.
type IdentityProvider interface {
	// SignUp registers a new user. Email confirmation is pending on success.
	SignUp(ctx context.Context, email, password string) domainauth.Result

	// SignIn authenticates credentials and returns a user projection and session.
	SignIn(ctx context.Context, email, password string) domainauth.Result

	// SignOut invalidates the session identified by the refresh token upstream.
	SignOut(ctx context.Context, refreshToken string) domainauth.Result

	// ResetPasswordRequest sends a password recovery link to the email.
	ResetPasswordRequest(ctx context.Context, email string) domainauth.Result

	// ChangePassword sets a new password using a recovery token.
	ChangePassword(ctx context.Context, token, password string) domainauth.Result

	// VerifyEmail confirms a signup using the emailed token.
	VerifyEmail(ctx context.Context, token string) domainauth.Result

	// RefreshToken exchanges a refresh token for a new session. The old
	// refresh token is not guaranteed reusable afterward (standard rotation).
	RefreshToken(ctx context.Context, refreshToken string) domainauth.Result

	// VerifyToken introspects an access token against the upstream user-info
	// endpoint and returns the associated profile.
	VerifyToken(ctx context.Context, token string) domainauth.Result

	// AuthorizeURL returns the upstream authorization URL for an OAuth provider.
	AuthorizeURL(provider string) string
}

// TokenVerifier decodes and validates a bearer token against the shared
// secret. Stateless; no I/O.
type TokenVerifier interface {
	Verify(token string) (domainauth.Claims, error)
}

// SettingsStore persists per-user settings records.
type SettingsStore interface {
	// Ensure atomically creates the record with defaults when absent and
	// returns it. Idempotent.
	Ensure(ctx context.Context, userID string) (domainsettings.UserSettings, error)

	// Get returns the record for the user, without creating it.
	Get(ctx context.Context, userID string) (domainsettings.UserSettings, error)

	// Update applies only the set fields of the patch and returns the
	// updated record.
	Update(ctx context.Context, userID string, patch domainsettings.Patch) (domainsettings.UserSettings, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
