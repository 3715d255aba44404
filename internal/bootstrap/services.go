package bootstrap

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nimbuslabs/authgate/config"
	"github.com/nimbuslabs/authgate/internal/adapters/postgres"
	redisadapter "github.com/nimbuslabs/authgate/internal/adapters/redis"
	"github.com/nimbuslabs/authgate/internal/adapters/supabase"
	"github.com/nimbuslabs/authgate/internal/ports"
	"github.com/nimbuslabs/authgate/internal/service"
	"github.com/nimbuslabs/authgate/internal/tokens"
)

// ServiceContainer holds the constructed service layer plus the upstream
// client handle used by the health check.
type ServiceContainer struct {
	Auth     *service.AuthService
	Settings *service.SettingsService
	Health   *service.HealthService
}

// ServicesConfig contains dependencies for building the service layer.
type ServicesConfig struct {
	Config *config.AppConfig
	Pool   *pgxpool.Pool
	// Redis is optional; when nil settings reads go straight to the store.
	Redis  goredis.UniversalClient
	Logger *slog.Logger
}

// BuildServices wires adapters and services from configuration and shared
// connection handles. Everything constructed here is immutable after startup.
func BuildServices(cfg ServicesConfig) ServiceContainer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gateway := supabase.New(supabase.Options{
		BaseURL:       cfg.Config.Supabase.URL,
		APIKey:        cfg.Config.Supabase.Key,
		Timeout:       cfg.Config.Supabase.Timeout,
		SignUpTimeout: cfg.Config.Supabase.SignUpTimeout,
		Logger:        logger,
	})
	verifier := tokens.NewVerifier(cfg.Config.Supabase.JWTSecret)

	var store ports.SettingsStore = postgres.NewSettingsStore(cfg.Pool)
	if cfg.Redis != nil {
		store = redisadapter.NewSettingsCache(store, cfg.Redis, 0, logger)
	}

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider:       gateway,
		Verifier:       verifier,
		OAuthProviders: cfg.Config.Supabase.OAuthProviders,
		Logger:         logger,
	})
	settingsSvc := service.NewSettingsService(store, logger)
	healthSvc := service.NewHealthService(gateway, settingsSvc, logger)

	return ServiceContainer{Auth: authSvc, Settings: settingsSvc, Health: healthSvc}
}
