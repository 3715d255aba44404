package httpx

import (
	"context"
	"net/http"

	domainsettings "github.com/nimbuslabs/authgate/internal/domain/settings"
)

// SettingsServiceInterface defines the settings operations used by handlers.
type SettingsServiceInterface interface {
	Get(ctx context.Context, userID string) (domainsettings.UserSettings, error)
	Update(ctx context.Context, userID string, patch domainsettings.Patch) (domainsettings.UserSettings, error)
}

// UserHandlers provides HTTP handlers for the authenticated user's resources.
type UserHandlers struct {
	Settings SettingsServiceInterface
}

// Me returns the authenticated principal's token projection.
// GET /users/me.
func (h *UserHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: "Authentication required"})
		return
	}

	body := map[string]any{
		"id":    claims.Subject,
		"email": claims.Email,
		"role":  claims.Role,
		"aud":   claims.Audience,
	}
	if !claims.ExpiresAt.IsZero() {
		body["exp"] = claims.ExpiresAt.Unix()
	}
	WriteJSON(w, http.StatusOK, body)
}

// GetSettings returns the authenticated user's settings, creating the record
// with defaults on first access.
// GET /users/me/settings.
func (h *UserHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: "Authentication required"})
		return
	}

	record, err := h.Settings.Get(r.Context(), claims.Subject)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}

// UpdateSettings applies a partial update to the authenticated user's settings
// and returns the updated record. Absent fields are left unchanged.
// PUT /users/me/settings.
func (h *UserHandlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: "Authentication required"})
		return
	}

	var patch domainsettings.Patch
	if !DecodeJSON(w, r, &patch) {
		return
	}

	record, err := h.Settings.Update(r.Context(), claims.Subject, patch)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}
