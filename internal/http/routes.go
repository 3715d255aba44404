package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     AuthServiceInterface
	Settings SettingsServiceInterface
	Health   HealthChecker

	// Decoder verifies bearer tokens on protected routes.
	Decoder TokenDecoder
	// Provisioner runs settings provisioning as an auth side effect (optional).
	Provisioner Provisioner

	Cookies     *SessionCookieManager
	FrontendURL string
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter creates and configures the HTTP handler chain:
// Recover > Logging > CORS > mux. Protected routes additionally pass through
// RequireAuth; auth, health, and root routes never do.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:         services.Auth,
		Cookies:     services.Cookies,
		FrontendURL: services.FrontendURL,
		Logger:      logger,
	}
	registerAuthRoutes(mux, authHandlers)

	userHandlers := &UserHandlers{Settings: services.Settings}
	requireAuth := RequireAuth(services.Decoder, services.Provisioner)
	mux.Handle("GET /users/me", requireAuth(http.HandlerFunc(userHandlers.Me)))
	mux.Handle("GET /users/me/settings", requireAuth(http.HandlerFunc(userHandlers.GetSettings)))
	mux.Handle("PUT /users/me/settings", requireAuth(http.HandlerFunc(userHandlers.UpdateSettings)))

	healthHandlers := &HealthHandlers{Svc: services.Health}
	mux.HandleFunc("GET /health", healthHandlers.Health)
	mux.HandleFunc("GET /{$}", healthHandlers.Root)

	handler := CORS(services.CORSOrigins)(mux)
	handler = Logging(logger)(handler)
	return Recover(logger)(handler)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/sign-up", h.SignUp)
	mux.HandleFunc("POST /auth/sign-in", h.SignIn)
	mux.HandleFunc("POST /auth/sign-out", h.SignOut)
	mux.HandleFunc("POST /auth/reset-password", h.ResetPassword)
	mux.HandleFunc("POST /auth/change-password", h.ChangePassword)
	mux.HandleFunc("GET /auth/verify-email/{token}", h.VerifyEmail)
	mux.HandleFunc("POST /auth/refresh", h.Refresh)
	mux.HandleFunc("POST /auth/verify-token", h.VerifyToken)
	mux.HandleFunc("GET /auth/oauth/{provider}", h.OAuth)
}
