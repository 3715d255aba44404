package httpx

import (
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
	apperrors "github.com/nimbuslabs/authgate/internal/errors"
	mockauth "github.com/nimbuslabs/authgate/internal/mocks/auth"
	"github.com/nimbuslabs/authgate/internal/service"
)

// Fixed identity used across router tests.
const (
	testToken  = "valid-token"
	testUserID = "8c9f4d47-7a71-4b1c-9ce2-0d8f5b3f6f2a"
)

type routerFixture struct {
	handler  http.Handler
	provider *mockauth.MockIdentityProvider
	store    *mockauth.MemorySettingsStore
}

// newTestRouter wires the real service layer over in-memory doubles so router
// tests exercise the full request path. Only testToken verifies successfully.
func newTestRouter() *routerFixture {
	provider := &mockauth.MockIdentityProvider{}
	store := mockauth.NewMemorySettingsStore()
	logger := slog.New(slog.DiscardHandler)

	verifier := &mockauth.MockTokenVerifier{
		VerifyFunc: func(token string) (domainauth.Claims, error) {
			if token != testToken {
				return domainauth.Claims{}, apperrors.Unauthorized("Invalid token or expired token")
			}
			return domainauth.Claims{
				Subject:   testUserID,
				Email:     "mock.user@example.com",
				Role:      "user",
				Audience:  "authenticated",
				ExpiresAt: time.Now().Add(15 * time.Minute).Truncate(time.Second),
			}, nil
		},
	}

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider:       provider,
		Verifier:       verifier,
		OAuthProviders: []string{"google", "github"},
		Logger:         logger,
	})
	settingsSvc := service.NewSettingsService(store, logger)
	healthSvc := service.NewHealthService(nil, store, logger)

	handler := NewRouter(RouterServices{
		Auth:        authSvc,
		Settings:    settingsSvc,
		Health:      healthSvc,
		Decoder:     authSvc,
		Provisioner: settingsSvc,
		Cookies:     &SessionCookieManager{},
		FrontendURL: "http://localhost:3000",
		CORSOrigins: []string{"http://localhost:3000"},
		Logger:      logger,
	})

	return &routerFixture{handler: handler, provider: provider, store: store}
}
