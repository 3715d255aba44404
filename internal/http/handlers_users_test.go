package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsettings "github.com/nimbuslabs/authgate/internal/domain/settings"
)

func authedRequest(method, target string, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set("Authorization", "Bearer "+testToken)
	return r
}

func TestMeWithoutHeader(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	// No claim material leaks on a rejected request.
	assert.NotContains(t, rec.Body.String(), testUserID)
}

func TestMeReturnsTokenProjection(t *testing.T) {
	fix := newTestRouter()

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/users/me", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
		Aud   string `json:"aud"`
		Exp   int64  `json:"exp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testUserID, resp.ID)
	assert.Equal(t, "mock.user@example.com", resp.Email)
	assert.Equal(t, "user", resp.Role)
	assert.Equal(t, "authenticated", resp.Aud)
	assert.Positive(t, resp.Exp)
}

func TestMeProvisionsSettings(t *testing.T) {
	fix := newTestRouter()

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/users/me", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fix.store.Len())
}

func TestGetSettingsReturnsDefaultsOnFirstAccess(t *testing.T) {
	fix := newTestRouter()

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/users/me/settings", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var record domainsettings.UserSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, testUserID, record.UserID)
	assert.Equal(t, domainsettings.DefaultTheme, record.Theme)
	assert.Equal(t, domainsettings.DefaultLanguage, record.Language)
	assert.Equal(t, domainsettings.DefaultTimezone, record.Timezone)
}

func TestUpdateSettingsPartialPatch(t *testing.T) {
	fix := newTestRouter()

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, authedRequest(http.MethodPut, "/users/me/settings", `{"theme":"dark"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var record domainsettings.UserSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "dark", record.Theme)
	// Untouched fields keep their defaults.
	assert.Equal(t, domainsettings.DefaultLanguage, record.Language)
	assert.Equal(t, domainsettings.DefaultTimezone, record.Timezone)
}

func TestUpdateSettingsMalformedBody(t *testing.T) {
	fix := newTestRouter()

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, authedRequest(http.MethodPut, "/users/me/settings", "{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettingsRequireAuth(t *testing.T) {
	fix := newTestRouter()

	for _, method := range []string{http.MethodGet, http.MethodPut} {
		r := httptest.NewRequest(method, "/users/me/settings", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		fix.handler.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, method)
	}
	assert.Zero(t, fix.store.Len())
}
