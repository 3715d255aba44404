package testutil

// Package testutil provides shared test infrastructure helpers. Integration
// tests skip automatically when the backing service is not running; set
// TEST_REQUIRE_SERVICES=true in CI to turn skips into failures.

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// TestingTB is an interface that covers both *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
	Cleanup(func())
}

func requireServices() bool {
	return strings.EqualFold(os.Getenv("TEST_REQUIRE_SERVICES"), "true")
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// TestDBDSN returns the DSN for the test Postgres instance.
// Defaults to port 55432 (docker-compose test profile); CI sets TEST_DB_PORT.
func TestDBDSN() string {
	host := getEnvOrDefault("TEST_DB_HOST", "localhost")
	port := getEnvOrDefault("TEST_DB_PORT", "55432")
	user := getEnvOrDefault("TEST_DB_USER", "authgate")
	password := getEnvOrDefault("TEST_DB_PASSWORD", "authgate")
	name := getEnvOrDefault("TEST_DB_NAME", "authgate")
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		user, password, net.JoinHostPort(host, port), name)
}

// SetupTestPool creates a pgx pool against the test database and applies the
// user_settings schema. Tests are skipped if Postgres is not available.
// The test table intentionally omits the production FK to the provider's
// auth.users table so store tests can use arbitrary user IDs.
func SetupTestPool(t TestingTB) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, TestDBDSN())
	if err == nil {
		err = pool.Ping(ctx)
	}
	if err != nil {
		if requireServices() {
			t.Fatalf("Test database not available: %v", err)
		}
		t.Skipf("Test database not available: %v", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_settings (
			user_id    uuid PRIMARY KEY,
			theme      text NOT NULL DEFAULT 'light',
			language   text NOT NULL DEFAULT 'en',
			timezone   text NOT NULL DEFAULT 'UTC',
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		if _, cleanupErr := pool.Exec(cleanupCtx, `TRUNCATE user_settings`); cleanupErr != nil {
			t.Logf("test db cleanup failed: %v", cleanupErr)
		}
		pool.Close()
	})

	return pool
}

// SetupTestRedis creates a Redis client for testing.
// Tests are skipped if Redis is not available.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr := getEnvOrDefault("TEST_REDIS_ADDR", "localhost:6379")
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   15, // keep test keys away from any local dev data
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		if requireServices() {
			t.Fatalf("Redis not available for testing at %s: %v", addr, err)
		}
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}

	t.Cleanup(func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer flushCancel()
		if err := client.FlushDB(flushCtx).Err(); err != nil {
			t.Logf("test redis flush failed: %v", err)
		}
		if err := client.Close(); err != nil {
			t.Logf("test redis close failed: %v", err)
		}
	})

	return client
}
