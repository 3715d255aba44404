package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
	"github.com/nimbuslabs/authgate/internal/ports"
)

// Error messages for transport-level failures. These never leak transport
// details to the client.
const (
	msgServiceUnavailable = "Service unavailable. Please try again later."
	msgSignUpTimeout      = "The authentication service is taking too long to respond. Please try again later."
	msgSignUpConnection   = "Failed to connect to the authentication service. Please check your network connection and try again."
)

var _ ports.IdentityProvider = (*Client)(nil)

// SignUp registers a new user with email and password.
func (c *Client) SignUp(ctx context.Context, email, password string) domainauth.Result {
	c.logger.Debug("upstream signup", "email", email)

	resp, err := c.do(ctx, requestParams{
		Method:  http.MethodPost,
		Path:    "/auth/v1/signup",
		Payload: map[string]string{"email": email, "password": password},
		Timeout: c.signUpTimeout,
	})
	if err != nil {
		if isTimeout(err) {
			c.logger.Error("signup timed out", "email", email)
			return domainauth.FailureCode(msgSignUpTimeout, "timeout")
		}
		c.logger.Error("signup request failed", "email", email, "error", err)
		return domainauth.FailureCode(msgSignUpConnection, "connection_error")
	}

	if resp.Status == http.StatusOK {
		c.logger.Info("signup successful", "email", email)
		return domainauth.Result{
			Success: true,
			Message: "Account created successfully. Please check your email to confirm your account.",
		}
	}

	return c.signUpFailure(email, resp)
}

// signUpFailure normalizes a non-2xx signup reply into a Result with a
// user-facing message, machine code, and structured details.
func (c *Client) signUpFailure(email string, resp upstreamResponse) domainauth.Result {
	if resp.Body == nil {
		c.logger.Error("unparseable signup error response",
			"status", resp.Status, "body", resp.RawBody)
		return domainauth.FailureCode(
			fmt.Sprintf("Unexpected response from authentication service (HTTP %d)", resp.Status),
			"parse_error",
		)
	}

	code := bodyString(resp.Body, "code")
	if code == "" {
		code = "unknown_code"
	}
	message := bodyString(resp.Body, "message")
	if message == "" {
		message = "Unknown error during signup"
	}
	// The provider reports richer fields on newer API versions; prefer them.
	if providerCode := bodyString(resp.Body, "error_code"); providerCode != "" {
		code = providerCode
	}
	if providerMsg := bodyString(resp.Body, "msg"); providerMsg != "" {
		message = providerMsg
	}

	c.logger.Error("signup rejected upstream",
		"email", email, "code", code, "message", message)

	details := map[string]any{"message": message}
	if errorID := bodyString(resp.Body, "error_id"); errorID != "" {
		details["error_id"] = errorID
	}

	return domainauth.Result{
		Success:   false,
		Error:     friendlySignUpError(code, message),
		ErrorCode: code,
		Details:   details,
	}
}

// signUpErrorMessages maps known upstream error codes to user-facing messages.
// Unknown codes pass the upstream message through.
var signUpErrorMessages = map[string]string{
	"user_already_registered": "This email is already registered. Please try signing in or use a different email.",
	"invalid_email":           "The email address format is invalid.",
	"weak_password":           "The password does not meet security requirements.",
	"email_taken":             "This email is already in use. Please try a different one.",
	"network_error":           "Network connection error. Please check your internet connection and try again.",
	"unexpected_failure":      "Our database encountered an error while creating your account. This might be due to a temporary issue or a configuration problem. Please try again later or contact support if the problem persists.",
	"database_error":          "Database error encountered. This could be due to a temporary issue or a configuration problem. Please try again later.",
	"500":                     "The server encountered an internal error. Please try again later or contact support if the problem persists.",
}

func friendlySignUpError(code, original string) string {
	if strings.Contains(strings.ToLower(original), "database error") {
		return "Database error encountered. This could be due to a temporary issue or a unique constraint violation. Please try again with a different email address."
	}
	if friendly, ok := signUpErrorMessages[code]; ok {
		return friendly
	}
	return original
}

// SignIn authenticates a user with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) domainauth.Result {
	resp, err := c.do(ctx, requestParams{
		Method:  http.MethodPost,
		Path:    "/auth/v1/token?grant_type=password",
		Payload: map[string]string{"email": email, "password": password},
	})
	if err != nil {
		c.logger.Error("sign in request failed", "email", email, "error", err)
		return domainauth.Failure(msgServiceUnavailable)
	}

	if resp.Status == http.StatusOK {
		user, _ := resp.Body["user"].(map[string]any)
		return domainauth.Result{
			Success: true,
			User:    userFromPayload(user),
			Session: sessionFromPayload(resp.Body),
		}
	}

	message := bodyString(resp.Body, "message")
	if message == "" {
		message = "Invalid email or password"
	}
	c.logger.Error("sign in rejected upstream", "error", message)
	return domainauth.Failure(message)
}

// SignOut invalidates the session identified by the refresh token.
func (c *Client) SignOut(ctx context.Context, refreshToken string) domainauth.Result {
	resp, err := c.do(ctx, requestParams{
		Method:  http.MethodPost,
		Path:    "/auth/v1/logout",
		Payload: map[string]string{"refresh_token": refreshToken},
	})
	if err != nil {
		c.logger.Error("sign out request failed", "error", err)
		return domainauth.Failure(msgServiceUnavailable)
	}

	if resp.Status == http.StatusNoContent {
		return domainauth.Result{Success: true, Message: "Successfully signed out"}
	}

	message := bodyString(resp.Body, "message")
	if message == "" {
		message = "Error during sign out"
	}
	c.logger.Error("sign out rejected upstream", "error", message)
	return domainauth.Failure(message)
}

// ResetPasswordRequest sends a password reset link to the email address.
func (c *Client) ResetPasswordRequest(ctx context.Context, email string) domainauth.Result {
	resp, err := c.do(ctx, requestParams{
		Method:  http.MethodPost,
		Path:    "/auth/v1/recover",
		Payload: map[string]string{"email": email},
	})
	if err != nil {
		c.logger.Error("reset password request failed", "error", err)
		return domainauth.Failure(msgServiceUnavailable)
	}

	if resp.Status == http.StatusOK {
		return domainauth.Result{Success: true, Message: "Password reset link sent to your email"}
	}

	message := bodyString(resp.Body, "message")
	if message == "" {
		message = "Error sending password reset link"
	}
	c.logger.Error("reset password rejected upstream", "error", message)
	return domainauth.Failure(message)
}

// ChangePassword sets a new password using a recovery token.
func (c *Client) ChangePassword(ctx context.Context, token, password string) domainauth.Result {
	resp, err := c.do(ctx, requestParams{
		Method:  http.MethodPut,
		Path:    "/auth/v1/recover",
		Payload: map[string]string{"token": token, "password": password},
	})
	if err != nil {
		c.logger.Error("change password request failed", "error", err)
		return domainauth.Failure(msgServiceUnavailable)
	}

	if resp.Status == http.StatusOK {
		return domainauth.Result{Success: true, Message: "Password changed successfully"}
	}

	message := bodyString(resp.Body, "message")
	if message == "" {
		message = "Error changing password"
	}
	c.logger.Error("change password rejected upstream", "error", message)
	return domainauth.Failure(message)
}

// VerifyEmail confirms a signup using the token sent to the user's email.
func (c *Client) VerifyEmail(ctx context.Context, token string) domainauth.Result {
	resp, err := c.do(ctx, requestParams{
		Method:  http.MethodPost,
		Path:    "/auth/v1/verify",
		Payload: map[string]string{"token": token, "type": "signup"},
	})
	if err != nil {
		c.logger.Error("verify email request failed", "error", err)
		return domainauth.Failure(msgServiceUnavailable)
	}

	if resp.Status == http.StatusOK {
		return domainauth.Result{Success: true, Message: "Email verified successfully"}
	}

	message := bodyString(resp.Body, "message")
	if message == "" {
		message = "Error verifying email"
	}
	c.logger.Error("verify email rejected upstream", "error", message)
	return domainauth.Failure(message)
}

// RefreshToken exchanges a refresh token for a new session.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) domainauth.Result {
	resp, err := c.do(ctx, requestParams{
		Method:  http.MethodPost,
		Path:    "/auth/v1/token?grant_type=refresh_token",
		Payload: map[string]string{"refresh_token": refreshToken},
	})
	if err != nil {
		c.logger.Error("token refresh request failed", "error", err)
		return domainauth.Failure(msgServiceUnavailable)
	}

	if resp.Status == http.StatusOK {
		return domainauth.Result{Success: true, Session: sessionFromPayload(resp.Body)}
	}

	message := bodyString(resp.Body, "message")
	if message == "" {
		message = "Error refreshing token"
	}
	c.logger.Error("token refresh rejected upstream", "error", message)
	return domainauth.Failure(message)
}

// VerifyToken introspects an access token against the upstream user-info
// endpoint. Used for tokens issued via the OAuth callback.
func (c *Client) VerifyToken(ctx context.Context, token string) domainauth.Result {
	resp, err := c.do(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/auth/v1/user",
		Bearer: token,
	})
	if err != nil {
		c.logger.Error("token verification request failed", "error", err)
		return domainauth.Failure(msgServiceUnavailable)
	}

	if resp.Status == http.StatusOK {
		return domainauth.Result{Success: true, User: userFromPayload(resp.Body)}
	}

	message := bodyString(resp.Body, "message")
	if message == "" {
		message = "Invalid token"
	}
	c.logger.Error("token verification rejected upstream", "error", message)
	return domainauth.Failure(message)
}

// AuthorizeURL returns the upstream authorization URL for the OAuth provider.
// Provider validation happens in the service layer.
func (c *Client) AuthorizeURL(provider string) string {
	return c.baseURL + "/auth/v1/authorize?provider=" + url.QueryEscape(provider)
}

// userFromPayload builds the normalized user projection from an upstream
// user object.
func userFromPayload(user map[string]any) *domainauth.User {
	if user == nil {
		return nil
	}
	meta, _ := user["user_metadata"].(map[string]any)
	return &domainauth.User{
		ID:            bodyString(user, "id"),
		Email:         bodyString(user, "email"),
		FirstName:     bodyString(meta, "first_name"),
		LastName:      bodyString(meta, "last_name"),
		AvatarURL:     bodyString(meta, "avatar_url"),
		CreatedAt:     bodyString(user, "created_at"),
		UpdatedAt:     bodyString(user, "updated_at"),
		EmailVerified: bodyString(user, "email_confirmed_at") != "",
	}
}

// sessionFromPayload builds the session from a token-grant response body.
func sessionFromPayload(body map[string]any) *domainauth.Session {
	if body == nil {
		return nil
	}
	session := &domainauth.Session{
		AccessToken:  bodyString(body, "access_token"),
		RefreshToken: bodyString(body, "refresh_token"),
	}
	switch v := body["expires_at"].(type) {
	case float64:
		session.ExpiresAt = int64(v)
	case int64:
		session.ExpiresAt = v
	}
	return session
}

func bodyString(body map[string]any, key string) string {
	if body == nil {
		return ""
	}
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}
