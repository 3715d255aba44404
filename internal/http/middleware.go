package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/cors"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					WriteError(w, ErrorParams{Code: http.StatusInternalServerError, Message: "Internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORS returns a middleware that answers cross-origin pre-flight requests and
// stamps response headers for the allowed origins. Credentials are enabled
// because the session rides on cookies.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// TokenDecoder verifies a bearer token and returns its claims.
type TokenDecoder interface {
	Decode(token string) (domainauth.Claims, error)
}

// Provisioner runs the best-effort settings provisioning side effect.
type Provisioner interface {
	Provision(ctx context.Context, userID string)
}

// RequireAuth returns a middleware that requires a valid bearer token.
// Outcomes per request:
//   - OPTIONS: bypassed with 204, no claims, no provisioning.
//   - No Authorization header: 401.
//   - Non-Bearer scheme: 403.
//   - Failed verification: 401.
//   - Valid token: claims in context, settings provisioned best-effort.
func RequireAuth(decoder TokenDecoder, provisioner Provisioner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: "Authentication required"})
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") {
				WriteError(w, ErrorParams{Code: http.StatusForbidden, Message: "Invalid authentication scheme"})
				return
			}

			claims, err := decoder.Decode(strings.TrimSpace(token))
			if err != nil {
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, Message: "Invalid token or expired token"})
				return
			}

			if provisioner != nil {
				provisioner.Provision(r.Context(), claims.Subject)
			}

			ctx := SetClaimsInContext(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
