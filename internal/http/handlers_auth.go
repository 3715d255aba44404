package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	SignUp(ctx context.Context, email, password string) domainauth.Result
	SignIn(ctx context.Context, email, password string) domainauth.Result
	SignOut(ctx context.Context, refreshToken string) domainauth.Result
	ResetPasswordRequest(ctx context.Context, email string) domainauth.Result
	ChangePassword(ctx context.Context, token, password string) domainauth.Result
	VerifyEmail(ctx context.Context, token string) domainauth.Result
	RefreshToken(ctx context.Context, refreshToken string) domainauth.Result
	VerifyToken(ctx context.Context, token string) domainauth.Result
	OAuthURL(provider string) (string, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc         AuthServiceInterface
	Cookies     *SessionCookieManager
	FrontendURL string
	Logger      *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles user registration.
// POST /auth/sign-up.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := h.Svc.SignUp(r.Context(), req.Email, req.Password)
	if !result.Success {
		WriteJSON(w, http.StatusBadRequest, result)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// SignIn handles credential authentication and sets the session cookies.
// POST /auth/sign-in.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := h.Svc.SignIn(r.Context(), req.Email, req.Password)
	if !result.Success {
		WriteJSON(w, http.StatusUnauthorized, result)
		return
	}

	h.Cookies.Attach(w, result.Session)
	WriteJSON(w, http.StatusOK, result)
}

// SignOut invalidates the refresh token upstream and clears the session
// cookies. Succeeds even when no session cookies are present.
// POST /auth/sign-out.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	result := h.Svc.SignOut(r.Context(), refreshToken)
	h.Cookies.Clear(w)
	WriteJSON(w, http.StatusOK, result)
}

// ResetPassword requests a password recovery email.
// POST /auth/reset-password.
func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := h.Svc.ResetPasswordRequest(r.Context(), req.Email)
	if !result.Success {
		WriteJSON(w, http.StatusBadRequest, result)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// ChangePassword sets a new password using a recovery token.
// POST /auth/change-password.
func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := h.Svc.ChangePassword(r.Context(), req.Token, req.NewPassword)
	if !result.Success {
		WriteJSON(w, http.StatusBadRequest, result)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// VerifyEmail confirms a signup token and redirects to the frontend's
// email-verified page with the outcome in the query string.
// GET /auth/verify-email/{token}.
func (h *AuthHandlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	result := h.Svc.VerifyEmail(r.Context(), token)

	q := url.Values{}
	if result.Success {
		q.Set("success", "true")
	} else {
		q.Set("success", "false")
		q.Set("error", result.Error)
	}
	http.Redirect(w, r, h.FrontendURL+"/auth/email-verified?"+q.Encode(), http.StatusFound)
}

// Refresh exchanges the refresh token cookie for a new session and rotates
// the cookies.
// POST /auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: "Refresh token not found"})
		return
	}

	result := h.Svc.RefreshToken(r.Context(), cookie.Value)
	if !result.Success {
		WriteJSON(w, http.StatusUnauthorized, result)
		return
	}

	h.Cookies.Attach(w, result.Session)
	WriteJSON(w, http.StatusOK, result)
}

// VerifyToken introspects a token issued outside the credential flow (OAuth
// callback) and, when the request carries the full token pair, establishes
// the session cookies.
// POST /auth/verify-token.
func (h *AuthHandlers) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresAt    int64  `json:"expires_at"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := h.Svc.VerifyToken(r.Context(), req.AccessToken)
	if !result.Success {
		WriteJSON(w, http.StatusUnauthorized, result)
		return
	}

	if req.RefreshToken != "" {
		h.Cookies.Attach(w, &domainauth.Session{
			AccessToken:  req.AccessToken,
			RefreshToken: req.RefreshToken,
			ExpiresAt:    req.ExpiresAt,
		})
	}
	WriteJSON(w, http.StatusOK, result)
}

// OAuth redirects to the upstream authorize URL for an allow-listed provider.
// GET /auth/oauth/{provider}.
func (h *AuthHandlers) OAuth(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	authorizeURL, err := h.Svc.OAuthURL(provider)
	if err != nil {
		h.logger().WarnContext(r.Context(), "rejected oauth provider", "provider", provider)
		WriteAppError(w, err)
		return
	}
	http.Redirect(w, r, authorizeURL, http.StatusFound)
}
