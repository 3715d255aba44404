package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nimbuslabs/authgate/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err = bootstrap.ValidateConfig(&cfg); err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting authgate",
		"environment", cfg.Environment,
		"addr", cfg.HTTP.Addr,
		"upstream", cfg.Supabase.URL,
		"db_host", cfg.Postgres.Host,
		"redis_enabled", cfg.Redis.Enabled,
	)

	pool, err := bootstrap.ConnectPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = bootstrap.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	servicesCfg := bootstrap.ServicesConfig{
		Config: &cfg,
		Pool:   pool,
		Logger: logger,
	}
	if redisClient != nil {
		servicesCfg.Redis = redisClient
	}
	services := bootstrap.BuildServices(servicesCfg)

	server := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})

	stop, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	logger.InfoContext(ctx, "shutdown signal received")
	bootstrap.ShutdownHTTPServer(ctx, server, logger)
	return nil
}
