package postgres

// Package postgres persists user settings in the provider's Postgres database.
//
// Expected schema:
//
//	CREATE TABLE user_settings (
//	    user_id    uuid PRIMARY KEY REFERENCES auth.users (id),
//	    theme      text NOT NULL DEFAULT 'light',
//	    language   text NOT NULL DEFAULT 'en',
//	    timezone   text NOT NULL DEFAULT 'UTC',
//	    created_at timestamptz NOT NULL DEFAULT now(),
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	domainsettings "github.com/nimbuslabs/authgate/internal/domain/settings"
	apperrors "github.com/nimbuslabs/authgate/internal/errors"
	"github.com/nimbuslabs/authgate/internal/ports"
)

var _ ports.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a pgx-backed settings store. Safe for concurrent use.
type SettingsStore struct {
	pool *pgxpool.Pool
}

// NewSettingsStore creates a settings store over the given pool.
func NewSettingsStore(pool *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{pool: pool}
}

const settingsColumns = "user_id, theme, language, timezone, created_at, updated_at"

// Ensure creates the record with column defaults when absent, then returns it.
// The insert is atomic (ON CONFLICT DO NOTHING), so two concurrent first
// requests for the same user cannot produce duplicates — the loser of the
// race simply reads the winner's row.
func (s *SettingsStore) Ensure(ctx context.Context, userID string) (domainsettings.UserSettings, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_settings (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return domainsettings.UserSettings{}, apperrors.MapDBError(err)
	}
	return s.Get(ctx, userID)
}

// Get returns the record for the user without creating it.
func (s *SettingsStore) Get(ctx context.Context, userID string) (domainsettings.UserSettings, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM user_settings WHERE user_id = $1`,
		userID,
	)

	var out domainsettings.UserSettings
	if err := row.Scan(&out.UserID, &out.Theme, &out.Language, &out.Timezone, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return domainsettings.UserSettings{}, apperrors.MapDBError(err)
	}
	return out, nil
}

// Update applies only the set fields of the patch and returns the updated
// record. Nil patch fields leave the stored values untouched.
func (s *SettingsStore) Update(ctx context.Context, userID string, patch domainsettings.Patch) (domainsettings.UserSettings, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, userID)
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE user_settings
		    SET theme      = COALESCE($2, theme),
		        language   = COALESCE($3, language),
		        timezone   = COALESCE($4, timezone),
		        updated_at = now()
		  WHERE user_id = $1
		  RETURNING `+settingsColumns,
		userID, patch.Theme, patch.Language, patch.Timezone,
	)

	var out domainsettings.UserSettings
	if err := row.Scan(&out.UserID, &out.Theme, &out.Language, &out.Timezone, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return domainsettings.UserSettings{}, apperrors.MapDBError(err)
	}
	return out, nil
}

// Ping reports whether the database is reachable.
func (s *SettingsStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
