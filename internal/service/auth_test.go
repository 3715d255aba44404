package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
	apperrors "github.com/nimbuslabs/authgate/internal/errors"
	"github.com/nimbuslabs/authgate/internal/mocks"
	mockauth "github.com/nimbuslabs/authgate/internal/mocks/auth"
)

func newAuthService(t *testing.T, providers ...string) (*AuthService, *mocks.MockIdentityProvider) {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockIdentityProvider(ctrl)
	if len(providers) == 0 {
		providers = []string{"google", "github"}
	}
	svc := NewAuthService(AuthServiceOptions{
		Provider:       provider,
		Verifier:       &mockauth.MockTokenVerifier{},
		OAuthProviders: providers,
	})
	return svc, provider
}

func TestAuthServiceSignUpRejectsWeakPasswordBeforeUpstream(t *testing.T) {
	svc, _ := newAuthService(t)

	// No EXPECT on the provider: any upstream call fails the test.
	cases := []struct {
		password string
		message  string
	}{
		{"Ab1!", "Password must be at least 8 characters long"},
		{"lowercase1!", "Password must contain at least one uppercase letter"},
		{"UPPERCASE1!", "Password must contain at least one lowercase letter"},
		{"NoDigits!!", "Password must contain at least one number"},
		{"NoSymbol11", "Password must contain at least one special character"},
	}
	for _, tc := range cases {
		result := svc.SignUp(context.Background(), "new.user@example.com", tc.password)
		assert.False(t, result.Success)
		assert.Equal(t, tc.message, result.Error)
		assert.Equal(t, "validation_error", result.ErrorCode)
	}
}

func TestAuthServiceSignUpRejectsInvalidEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	for _, email := range []string{"", "not-an-email"} {
		result := svc.SignUp(context.Background(), email, "Sup3rSecret!")
		assert.False(t, result.Success)
		assert.Equal(t, "validation_error", result.ErrorCode)
	}
}

func TestAuthServiceSignUpDelegatesValidInput(t *testing.T) {
	svc, provider := newAuthService(t)
	ctx := context.Background()

	provider.EXPECT().
		SignUp(ctx, "new.user@example.com", "Sup3rSecret!").
		Return(domainauth.Result{Success: true, Message: "Account created successfully. Please check your email to confirm your account."})

	result := svc.SignUp(ctx, "new.user@example.com", "Sup3rSecret!")
	require.True(t, result.Success)
	assert.Contains(t, result.Message, "check your email")
}

func TestAuthServiceSignOutWithoutTokenSkipsUpstream(t *testing.T) {
	svc, _ := newAuthService(t)

	// No EXPECT: the provider must not be called for an empty refresh token.
	result := svc.SignOut(context.Background(), "")
	require.True(t, result.Success)
	assert.Equal(t, "Successfully signed out", result.Message)
}

func TestAuthServiceSignOutSucceedsDespiteUpstreamFailure(t *testing.T) {
	svc, provider := newAuthService(t)
	ctx := context.Background()

	provider.EXPECT().
		SignOut(ctx, "stale-refresh-token").
		Return(domainauth.Failure("Logout failed"))

	result := svc.SignOut(ctx, "stale-refresh-token")
	require.True(t, result.Success)
	assert.Equal(t, "Successfully signed out", result.Message)
}

func TestAuthServiceChangePasswordEnforcesPolicy(t *testing.T) {
	svc, _ := newAuthService(t)

	result := svc.ChangePassword(context.Background(), "recovery-token", "weak")
	assert.False(t, result.Success)
	assert.Equal(t, "validation_error", result.ErrorCode)
}

func TestAuthServiceOAuthURLAllowList(t *testing.T) {
	svc, provider := newAuthService(t, "google", "github")

	provider.EXPECT().
		AuthorizeURL("google").
		Return("https://identity.example/auth/v1/authorize?provider=google")

	url, err := svc.OAuthURL("Google")
	require.NoError(t, err)
	assert.Contains(t, url, "provider=google")

	_, err = svc.OAuthURL("evil-idp")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "provider", apperrors.GetField(err))
}

func TestAuthServiceDecode(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockIdentityProvider(ctrl),
		Verifier: &mockauth.MockTokenVerifier{
			DefaultClaims: domainauth.Claims{Subject: "user-1", Email: "user@example.com", Role: "admin"},
		},
	})

	claims, err := svc.Decode("some-token")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}
