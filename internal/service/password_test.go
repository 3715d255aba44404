package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		message  string
	}{
		{"too short", "Ab1!", "Password must be at least 8 characters long"},
		{"no uppercase", "abcdef1!", "Password must contain at least one uppercase letter"},
		{"no lowercase", "ABCDEF1!", "Password must contain at least one lowercase letter"},
		{"no digit", "Abcdefg!", "Password must contain at least one number"},
		{"no symbol", "Abcdefg1", "Password must contain at least one special character"},
		{"valid", "Abcdef1!", ""},
		{"valid with brackets", "Passw0rd[]", ""},
		{"valid with tilde", "Passw0rd~x", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.message == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tc.message, err.Message)
			assert.Equal(t, "password", err.Field)
		})
	}
}
