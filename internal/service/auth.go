package service

import (
	"context"
	"log/slog"
	"strings"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
	apperrors "github.com/nimbuslabs/authgate/internal/errors"
	"github.com/nimbuslabs/authgate/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	Verifier ports.TokenVerifier
	// OAuthProviders is the allow-list of OAuth provider names. Redirects are
	// only built for names on this list.
	OAuthProviders []string
	Logger         *slog.Logger
}

// AuthService orchestrates credential operations: it validates inputs locally
// where possible and delegates to the upstream identity provider. Like the
// provider port, its credential operations return Result values rather than
// errors; handlers map failed Results to status codes.
type AuthService struct {
	provider       ports.IdentityProvider
	verifier       ports.TokenVerifier
	oauthProviders map[string]struct{}
	logger         *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[string]struct{}, len(opts.OAuthProviders))
	for _, p := range opts.OAuthProviders {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			allowed[p] = struct{}{}
		}
	}
	return &AuthService{
		provider:       opts.Provider,
		verifier:       opts.Verifier,
		oauthProviders: allowed,
		logger:         logger,
	}
}

// SignUp validates the password policy locally, then registers the user
// upstream. A policy violation short-circuits without a network call.
func (s *AuthService) SignUp(ctx context.Context, email, password string) domainauth.Result {
	if email == "" || !strings.Contains(email, "@") {
		return domainauth.FailureCode("A valid email address is required", "validation_error")
	}
	if err := ValidatePassword(password); err != nil {
		return domainauth.FailureCode(err.Message, "validation_error")
	}
	return s.provider.SignUp(ctx, email, password)
}

// SignIn authenticates credentials upstream.
func (s *AuthService) SignIn(ctx context.Context, email, password string) domainauth.Result {
	return s.provider.SignIn(ctx, email, password)
}

// SignOut invalidates the refresh token upstream. When no refresh token is
// supplied the upstream call is skipped entirely, and sign-out still reports
// success — from the client's perspective signing out always works.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) domainauth.Result {
	if refreshToken == "" {
		return domainauth.Result{Success: true, Message: "Successfully signed out"}
	}

	result := s.provider.SignOut(ctx, refreshToken)
	if !result.Success {
		s.logger.Warn("upstream sign out failed", "error", result.Error)
	}
	return domainauth.Result{Success: true, Message: "Successfully signed out"}
}

// ResetPasswordRequest sends a password recovery link.
func (s *AuthService) ResetPasswordRequest(ctx context.Context, email string) domainauth.Result {
	return s.provider.ResetPasswordRequest(ctx, email)
}

// ChangePassword sets a new password using a recovery token. The same
// complexity policy as sign-up applies.
func (s *AuthService) ChangePassword(ctx context.Context, token, password string) domainauth.Result {
	if err := ValidatePassword(password); err != nil {
		return domainauth.FailureCode(err.Message, "validation_error")
	}
	return s.provider.ChangePassword(ctx, token, password)
}

// VerifyEmail confirms a signup token upstream.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) domainauth.Result {
	return s.provider.VerifyEmail(ctx, token)
}

// RefreshToken exchanges a refresh token for a new session.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) domainauth.Result {
	return s.provider.RefreshToken(ctx, refreshToken)
}

// VerifyToken introspects an access token upstream and returns the profile.
func (s *AuthService) VerifyToken(ctx context.Context, token string) domainauth.Result {
	return s.provider.VerifyToken(ctx, token)
}

// OAuthURL returns the upstream authorization URL for the provider.
// Provider names are checked against the configured allow-list so the
// redirect target cannot be steered by arbitrary input.
func (s *AuthService) OAuthURL(provider string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	if _, ok := s.oauthProviders[name]; !ok {
		return "", apperrors.ValidationField("provider", "Unsupported OAuth provider")
	}
	return s.provider.AuthorizeURL(name), nil
}

// Decode verifies a bearer token locally and returns its claims.
func (s *AuthService) Decode(token string) (domainauth.Claims, error) {
	return s.verifier.Verify(token)
}
