package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootStatus(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"online","version":"1.0.0"}`, rec.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status  string            `json:"status"`
		Details map[string]string `json:"details"`
		Version string            `json:"version"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.Details["database"])
	assert.Equal(t, "1.0.0", resp.Version)
}

func TestUnknownPathIs404(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreflightNeverRejectsNorProvisions(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodOptions, "/users/me/settings", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	assert.Less(t, rec.Code, 400)
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Zero(t, fix.store.Len())
}

func TestCORSHeadersOnActualRequest(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDisallowedOriginGetsNoCORSHeaders(t *testing.T) {
	fix := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, r)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
