package redis

// Package redis provides a read-through cache over the settings store.

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	domainsettings "github.com/nimbuslabs/authgate/internal/domain/settings"
	"github.com/nimbuslabs/authgate/internal/ports"
)

const defaultSettingsTTL = 5 * time.Minute

var _ ports.SettingsStore = (*SettingsCache)(nil)

// SettingsCache decorates a SettingsStore with a Redis read-through cache.
// Cache failures never fail the request; the store remains authoritative.
type SettingsCache struct {
	store  ports.SettingsStore
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

// NewSettingsCache creates a cache over the given store.
// A zero ttl uses the default (5m).
func NewSettingsCache(store ports.SettingsStore, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *SettingsCache {
	if ttl <= 0 {
		ttl = defaultSettingsTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsCache{
		store:  store,
		client: client,
		ttl:    ttl,
		prefix: "user_settings:",
		logger: logger,
	}
}

// Ensure delegates to the store and primes the cache with the result.
func (c *SettingsCache) Ensure(ctx context.Context, userID string) (domainsettings.UserSettings, error) {
	record, err := c.store.Ensure(ctx, userID)
	if err != nil {
		return domainsettings.UserSettings{}, err
	}
	c.set(ctx, record)
	return record, nil
}

// Get returns the cached record when fresh, falling back to the store.
func (c *SettingsCache) Get(ctx context.Context, userID string) (domainsettings.UserSettings, error) {
	if cached, ok := c.lookup(ctx, userID); ok {
		return cached, nil
	}

	record, err := c.store.Get(ctx, userID)
	if err != nil {
		return domainsettings.UserSettings{}, err
	}
	c.set(ctx, record)
	return record, nil
}

// Update writes through to the store and refreshes the cache.
func (c *SettingsCache) Update(ctx context.Context, userID string, patch domainsettings.Patch) (domainsettings.UserSettings, error) {
	record, err := c.store.Update(ctx, userID, patch)
	if err != nil {
		return domainsettings.UserSettings{}, err
	}
	c.set(ctx, record)
	return record, nil
}

// Ping reports the authoritative store's reachability.
func (c *SettingsCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func (c *SettingsCache) lookup(ctx context.Context, userID string) (domainsettings.UserSettings, bool) {
	data, err := c.client.Get(ctx, c.prefix+userID).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("settings cache read failed", "error", err)
		}
		return domainsettings.UserSettings{}, false
	}

	var record domainsettings.UserSettings
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		c.logger.Warn("settings cache entry corrupt", "error", err)
		return domainsettings.UserSettings{}, false
	}
	return record, true
}

func (c *SettingsCache) set(ctx context.Context, record domainsettings.UserSettings) {
	data, err := json.Marshal(record)
	if err != nil {
		c.logger.Warn("settings cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+record.UserID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("settings cache write failed", "error", err)
	}
}
