package service

import (
	"strings"
	"unicode"

	apperrors "github.com/nimbuslabs/authgate/internal/errors"
)

// passwordSymbols is the fixed punctuation set accepted by the complexity policy.
const passwordSymbols = "!@#$%^&*()-_=+[]{}|;:,.<>?/~"

const minPasswordLength = 8

// ValidatePassword enforces the password complexity policy locally, before
// any upstream call: minimum length, one uppercase, one lowercase, one digit,
// and one symbol from the fixed set.
func ValidatePassword(password string) *apperrors.AppError {
	if len(password) < minPasswordLength {
		return apperrors.ValidationField("password", "Password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return apperrors.ValidationField("password", "Password must contain at least one uppercase letter")
	case !hasLower:
		return apperrors.ValidationField("password", "Password must contain at least one lowercase letter")
	case !hasDigit:
		return apperrors.ValidationField("password", "Password must contain at least one number")
	case !hasSymbol:
		return apperrors.ValidationField("password", "Password must contain at least one special character")
	}
	return nil
}
