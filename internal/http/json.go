package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/nimbuslabs/authgate/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, Message: "Invalid request body"})
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	Message string
	// ErrCode and Details are optional machine-readable extras; only the
	// sign-up endpoint populates them.
	ErrCode string
	Details map[string]any
}

// WriteError writes a JSON error response. Every error body carries a
// success:false flag and a human-readable error message.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	body := map[string]any{"success": false, "error": p.Message}
	if p.ErrCode != "" {
		body["error_code"] = p.ErrCode
	}
	if p.Details != nil {
		body["details"] = p.Details
	}
	WriteJSON(w, p.Code, body)
}

// WriteAppError maps an application error to an HTTP status and writes it.
// Internal errors are masked with a generic message.
func WriteAppError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		code, message = http.StatusBadRequest, err.Error()
	case apperrors.ErrCodeUnauthorized:
		code, message = http.StatusUnauthorized, err.Error()
	case apperrors.ErrCodeForbidden:
		code, message = http.StatusForbidden, err.Error()
	case apperrors.ErrCodeNotFound:
		code, message = http.StatusNotFound, err.Error()
	case apperrors.ErrCodeConflict:
		code, message = http.StatusConflict, err.Error()
	case apperrors.ErrCodeUnavailable, apperrors.ErrCodeTimeout:
		code, message = http.StatusServiceUnavailable, "Service unavailable. Please try again later."
	}

	WriteError(w, ErrorParams{Code: code, Message: message})
}
