package auth

// Package auth contains domain-level types for authentication.
// It is pure and free of framework/adapter concerns.

import "time"

// Claims is the decoded claim set of a verified access token — the
// authenticated principal. It is rebuilt on every request and never persisted.
type Claims struct {
	Subject   string    // stable user identifier (sub)
	Email     string    // email claim
	Role      string    // provider role, defaults to "user" when absent
	Audience  string    // aud claim; provider tokens may omit it
	ExpiresAt time.Time // exp
	IssuedAt  time.Time // iat

	// Metadata carries the provider's user_metadata object
	// (first_name, last_name, avatar_url, ...).
	Metadata map[string]any

	// Raw is the full open claim mapping as decoded from the token.
	// Provider-specific extras (created_at, email_confirmed_at) live here.
	Raw map[string]any
}

// MetaString returns a string value from the user metadata, or "" when absent.
func (c Claims) MetaString(key string) string {
	if c.Metadata == nil {
		return ""
	}
	if v, ok := c.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// RawString returns a string claim from the raw claim set, or "" when absent.
func (c Claims) RawString(key string) string {
	if c.Raw == nil {
		return ""
	}
	if v, ok := c.Raw[key].(string); ok {
		return v
	}
	return ""
}

// Session is the provider-issued token pair. It is owned by the upstream
// provider; this layer only carries it transiently into cookies.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// User is the normalized projection of an upstream user profile returned in
// authentication responses.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// Result is the normalized outcome of an identity-provider operation.
// Invariant: Success=false implies Error is set; Success=true implies the
// operation-specific payload (Message, User, or Session) is set.
type Result struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message,omitempty"`
	User      *User          `json:"user,omitempty"`
	Session   *Session       `json:"session,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Failure builds a failed Result with a human-readable error message.
func Failure(message string) Result {
	return Result{Success: false, Error: message}
}

// FailureCode builds a failed Result with a message and machine-readable code.
func FailureCode(message, code string) Result {
	return Result{Success: false, Error: message, ErrorCode: code}
}
