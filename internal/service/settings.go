package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	domainsettings "github.com/nimbuslabs/authgate/internal/domain/settings"
	apperrors "github.com/nimbuslabs/authgate/internal/errors"
	"github.com/nimbuslabs/authgate/internal/ports"
)

// SettingsService provisions and manages per-user settings records.
// Provisioning is idempotent: the store's Ensure is atomic, and concurrent
// ensures for the same user within this process are collapsed via
// singleflight so a burst of first requests issues one store call.
type SettingsService struct {
	store  ports.SettingsStore
	logger *slog.Logger
	ensure singleflight.Group
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(store ports.SettingsStore, logger *slog.Logger) *SettingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsService{store: store, logger: logger}
}

// Ensure creates the user's settings record with defaults when absent and
// returns it.
func (s *SettingsService) Ensure(ctx context.Context, userID string) (domainsettings.UserSettings, error) {
	if err := validateUserID(userID); err != nil {
		return domainsettings.UserSettings{}, err
	}

	v, err, _ := s.ensure.Do(userID, func() (any, error) {
		return s.store.Ensure(ctx, userID)
	})
	if err != nil {
		return domainsettings.UserSettings{}, err
	}
	return v.(domainsettings.UserSettings), nil
}

// Provision runs Ensure as a best-effort side effect of authentication.
// It deliberately returns nothing: a provisioning failure is logged and
// swallowed, never failing the request that triggered it.
func (s *SettingsService) Provision(ctx context.Context, userID string) {
	if _, err := s.Ensure(ctx, userID); err != nil {
		s.logger.Warn("settings provisioning failed", "user_id", userID, "error", err)
	}
}

// Get ensures the record exists, then returns it. A missing record after a
// successful ensure indicates a store defect and surfaces as NotFound.
func (s *SettingsService) Get(ctx context.Context, userID string) (domainsettings.UserSettings, error) {
	if _, err := s.Ensure(ctx, userID); err != nil {
		return domainsettings.UserSettings{}, err
	}
	return s.store.Get(ctx, userID)
}

// Update ensures the record exists, then applies only the set fields of the
// patch and returns the updated record.
func (s *SettingsService) Update(ctx context.Context, userID string, patch domainsettings.Patch) (domainsettings.UserSettings, error) {
	if _, err := s.Ensure(ctx, userID); err != nil {
		return domainsettings.UserSettings{}, err
	}
	return s.store.Update(ctx, userID, patch)
}

// Ping reports the backing store's reachability (used by the health check).
func (s *SettingsService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func validateUserID(userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid user ID")
	}
	return nil
}
