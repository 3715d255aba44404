package tokens

// Package tokens verifies provider-issued access tokens locally.
// Tokens are signed with a single shared HMAC secret; no network calls.

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
	apperrors "github.com/nimbuslabs/authgate/internal/errors"
)

// Verifier validates bearer tokens against the provider's shared JWT secret.
// It accepts only HS256. The audience claim is not validated: upstream tokens
// omit it by default.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier creates a Verifier for the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// Verify decodes and validates the token, returning the claim set.
// Malformed tokens, bad signatures, and expired tokens all return an
// Unauthorized error value; Verify never panics.
func (v *Verifier) Verify(token string) (domainauth.Claims, error) {
	raw := jwt.MapClaims{}
	parsed, err := v.parser.ParseWithClaims(token, raw, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return domainauth.Claims{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "Invalid token or expired token")
	}
	if !parsed.Valid {
		return domainauth.Claims{}, apperrors.Unauthorized("Invalid token or expired token")
	}

	return claimsFromMap(raw), nil
}

// claimsFromMap projects the open claim mapping into the domain Claims shape,
// keeping the raw mapping for provider extras.
func claimsFromMap(raw jwt.MapClaims) domainauth.Claims {
	claims := domainauth.Claims{
		Subject: stringClaim(raw, "sub"),
		Email:   stringClaim(raw, "email"),
		Role:    stringClaim(raw, "role"),
		Raw:     map[string]any(raw),
	}
	if claims.Role == "" {
		claims.Role = "user"
	}

	// aud may be a string or a list; take the first entry when it is a list.
	switch aud := raw["aud"].(type) {
	case string:
		claims.Audience = aud
	case []any:
		if len(aud) > 0 {
			if s, ok := aud[0].(string); ok {
				claims.Audience = s
			}
		}
	}

	if exp, ok := numericClaim(raw, "exp"); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	if iat, ok := numericClaim(raw, "iat"); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}

	if meta, ok := raw["user_metadata"].(map[string]any); ok {
		claims.Metadata = meta
	}

	return claims
}

func stringClaim(raw jwt.MapClaims, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

func numericClaim(raw jwt.MapClaims, key string) (float64, bool) {
	switch v := raw[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}
