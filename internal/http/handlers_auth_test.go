package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
)

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignUpSuccess(t *testing.T) {
	fix := newTestRouter()

	body := `{"email":"user@example.com","password":"Password123!"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/sign-up", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "check your email")
	assert.Equal(t, 1, fix.provider.SignUpCalls)
}

func TestSignUpWeakPasswordIs400WithoutUpstreamCall(t *testing.T) {
	fix := newTestRouter()

	body := `{"email":"user@example.com","password":"short"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/sign-up", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Success   bool   `json:"success"`
		Error     string `json:"error"`
		ErrorCode string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Password must be at least 8 characters long", resp.Error)
	assert.Equal(t, "validation_error", resp.ErrorCode)
	assert.Zero(t, fix.provider.SignUpCalls)
}

func TestSignUpUpstreamConflictPassedThrough(t *testing.T) {
	fix := newTestRouter()
	fix.provider.SignUpFunc = func(context.Context, string, string) domainauth.Result {
		return domainauth.Result{
			Success:   false,
			Error:     "An account with this email already exists",
			ErrorCode: "user_already_registered",
			Details:   map[string]any{"error_id": "abc123"},
		}
	}

	body := `{"email":"taken@example.com","password":"Password123!"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/sign-up", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "user_already_registered", resp["error_code"])
	assert.NotNil(t, resp["details"])
}

func TestSignUpMalformedBody(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodPost, "/auth/sign-up", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, fix.provider.SignUpCalls)
}

func TestSignInSetsSessionCookies(t *testing.T) {
	fix := newTestRouter()

	body := `{"email":"user@example.com","password":"Password123!"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)

	access := findCookie(t, rec, AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "mock-access-token", access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, 900, access.MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)

	refresh := findCookie(t, rec, RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "mock-refresh-token", refresh.Value)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, 604800, refresh.MaxAge)

	var resp struct {
		Success bool                `json:"success"`
		User    *domainauth.User    `json:"user"`
		Session *domainauth.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.User)
	assert.Equal(t, "mock.user@example.com", resp.User.Email)
	require.NotNil(t, resp.Session)
}

func TestSignInInvalidCredentials(t *testing.T) {
	fix := newTestRouter()
	fix.provider.SignInFunc = func(context.Context, string, string) domainauth.Result {
		return domainauth.Failure("Invalid email or password")
	}

	body := `{"email":"user@example.com","password":"Wrong-pass1"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/sign-in", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(t, rec, AccessTokenCookie))
}

func TestSignOutClearsCookiesAndInvalidatesUpstream(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodPost, "/auth/sign-out", nil)
	r.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "mock-refresh-token"})
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fix.provider.SignOutCalls)

	access := findCookie(t, rec, AccessTokenCookie)
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.Negative(t, access.MaxAge)

	refresh := findCookie(t, rec, RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Negative(t, refresh.MaxAge)
}

func TestSignOutWithoutCookieSkipsUpstream(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodPost, "/auth/sign-out", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, fix.provider.SignOutCalls)
	assert.Contains(t, rec.Body.String(), "Successfully signed out")
}

func TestRefreshWithoutCookie(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Refresh token not found"}`, rec.Body.String())
	assert.Zero(t, fix.provider.RefreshCalls)
}

func TestRefreshRotatesCookies(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	r.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: "old-refresh-token"})
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fix.provider.RefreshCalls)
	access := findCookie(t, rec, AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "mock-access-token", access.Value)
}

func TestVerifyEmailRedirects(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/auth/verify-email/some-token", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:3000/auth/email-verified?success=true", rec.Header().Get("Location"))
}

func TestVerifyEmailFailureRedirectsWithError(t *testing.T) {
	fix := newTestRouter()
	fix.provider.VerifyEmailFunc = func(context.Context, string) domainauth.Result {
		return domainauth.Failure("Token has expired")
	}

	r := httptest.NewRequest(http.MethodGet, "/auth/verify-email/stale-token", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	assert.Contains(t, location, "success=false")
	assert.Contains(t, location, "error=Token+has+expired")
}

func TestVerifyTokenEstablishesSession(t *testing.T) {
	fix := newTestRouter()

	body := `{"access_token":"oauth-access","refresh_token":"oauth-refresh","expires_at":1767225600}`
	r := httptest.NewRequest(http.MethodPost, "/auth/verify-token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	access := findCookie(t, rec, AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "oauth-access", access.Value)
	refresh := findCookie(t, rec, RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "oauth-refresh", refresh.Value)
}

func TestVerifyTokenRejected(t *testing.T) {
	fix := newTestRouter()
	fix.provider.VerifyTokenFunc = func(context.Context, string) domainauth.Result {
		return domainauth.Failure("Invalid token or expired token")
	}

	body := `{"access_token":"bad-token"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/verify-token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(t, rec, AccessTokenCookie))
}

func TestOAuthRedirectsForAllowedProvider(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/auth/oauth/google", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "provider=google")
}

func TestOAuthRejectsUnknownProvider(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/auth/oauth/evil-idp", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Unsupported OAuth provider"}`, rec.Body.String())
}

func TestChangePasswordEnforcesPolicy(t *testing.T) {
	fix := newTestRouter()

	body := `{"token":"recovery-token","new_password":"weak"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/change-password", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "at least 8 characters")
}

func TestResetPassword(t *testing.T) {
	fix := newTestRouter()

	body := `{"email":"user@example.com"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/reset-password", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reset link")
}
