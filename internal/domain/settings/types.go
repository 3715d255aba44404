package settings

import "time"

// Default values seeded into a freshly provisioned settings record.
const (
	DefaultTheme    = "light"
	DefaultLanguage = "en"
	DefaultTimezone = "UTC"
)

// UserSettings is the per-user preference record, keyed by the user's subject
// identifier. Exactly one record exists per user; it is created lazily on
// first authenticated access and never deleted by this layer.
type UserSettings struct {
	UserID    string    `json:"user_id"`
	Theme     string    `json:"theme"`
	Language  string    `json:"language"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch is a partial update to a settings record. Nil fields are left
// untouched so the "ignore unset fields" policy is visible in the type.
type Patch struct {
	Theme    *string `json:"theme,omitempty"`
	Language *string `json:"language,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
}

// IsEmpty reports whether the patch carries no changes.
func (p Patch) IsEmpty() bool {
	return p.Theme == nil && p.Language == nil && p.Timezone == nil
}
