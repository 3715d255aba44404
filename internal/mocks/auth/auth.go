package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/nimbuslabs/authgate/internal/domain/auth"
	domainsettings "github.com/nimbuslabs/authgate/internal/domain/settings"
	apperrors "github.com/nimbuslabs/authgate/internal/errors"
	"github.com/nimbuslabs/authgate/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.TokenVerifier    = (*MockTokenVerifier)(nil)
	_ ports.SettingsStore    = (*MemorySettingsStore)(nil)
)

// MockIdentityProvider simulates the upstream identity provider. Each
// operation returns a canned success unless the corresponding Func field is
// set. SignUpCalls counts upstream sign-up attempts so tests can assert that
// local validation short-circuits before any network call.
type MockIdentityProvider struct {
	SignUpFunc       func(ctx context.Context, email, password string) domainauth.Result
	SignInFunc       func(ctx context.Context, email, password string) domainauth.Result
	SignOutFunc      func(ctx context.Context, refreshToken string) domainauth.Result
	ResetFunc        func(ctx context.Context, email string) domainauth.Result
	ChangeFunc       func(ctx context.Context, token, password string) domainauth.Result
	VerifyEmailFunc  func(ctx context.Context, token string) domainauth.Result
	RefreshFunc      func(ctx context.Context, refreshToken string) domainauth.Result
	VerifyTokenFunc  func(ctx context.Context, token string) domainauth.Result
	AuthorizeURLFunc func(provider string) string

	SignUpCalls  int
	SignOutCalls int
	RefreshCalls int
}

// DefaultUser is the canned user projection returned on successful sign-in.
func DefaultUser() *domainauth.User {
	return &domainauth.User{
		ID:            "00000000-0000-0000-0000-000000000001",
		Email:         "mock.user@example.com",
		FirstName:     "Mock",
		LastName:      "User",
		EmailVerified: true,
	}
}

// DefaultSession is the canned session returned on successful sign-in/refresh.
func DefaultSession() *domainauth.Session {
	return &domainauth.Session{
		AccessToken:  "mock-access-token",
		RefreshToken: "mock-refresh-token",
		ExpiresAt:    time.Now().Add(15 * time.Minute).Unix(),
	}
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string) domainauth.Result {
	m.SignUpCalls++
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, email, password)
	}
	return domainauth.Result{
		Success: true,
		Message: "Account created successfully. Please check your email to confirm your account.",
	}
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) domainauth.Result {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	return domainauth.Result{Success: true, User: DefaultUser(), Session: DefaultSession()}
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, refreshToken string) domainauth.Result {
	m.SignOutCalls++
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, refreshToken)
	}
	return domainauth.Result{Success: true, Message: "Successfully signed out"}
}

func (m *MockIdentityProvider) ResetPasswordRequest(ctx context.Context, email string) domainauth.Result {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, email)
	}
	return domainauth.Result{Success: true, Message: "Password reset link sent to your email"}
}

func (m *MockIdentityProvider) ChangePassword(ctx context.Context, token, password string) domainauth.Result {
	if m.ChangeFunc != nil {
		return m.ChangeFunc(ctx, token, password)
	}
	return domainauth.Result{Success: true, Message: "Password changed successfully"}
}

func (m *MockIdentityProvider) VerifyEmail(ctx context.Context, token string) domainauth.Result {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return domainauth.Result{Success: true, Message: "Email verified successfully"}
}

func (m *MockIdentityProvider) RefreshToken(ctx context.Context, refreshToken string) domainauth.Result {
	m.RefreshCalls++
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return domainauth.Result{Success: true, Session: DefaultSession()}
}

func (m *MockIdentityProvider) VerifyToken(ctx context.Context, token string) domainauth.Result {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(ctx, token)
	}
	return domainauth.Result{Success: true, User: DefaultUser()}
}

func (m *MockIdentityProvider) AuthorizeURL(provider string) string {
	if m.AuthorizeURLFunc != nil {
		return m.AuthorizeURLFunc(provider)
	}
	return "https://mock-provider.example/auth/v1/authorize?provider=" + provider
}

// MockTokenVerifier returns DefaultClaims for any token unless VerifyFunc is set.
type MockTokenVerifier struct {
	VerifyFunc    func(token string) (domainauth.Claims, error)
	DefaultClaims domainauth.Claims
}

func (m *MockTokenVerifier) Verify(token string) (domainauth.Claims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	claims := m.DefaultClaims
	if claims.Subject == "" {
		claims = domainauth.Claims{
			Subject: "00000000-0000-0000-0000-000000000001",
			Email:   "mock.user@example.com",
			Role:    "user",
		}
	}
	return claims, nil
}

// MemorySettingsStore is an in-memory SettingsStore for tests. Safe for
// concurrent use.
type MemorySettingsStore struct {
	mu      sync.Mutex
	records map[string]domainsettings.UserSettings

	EnsureErr error
	PingErr   error

	EnsureCalls int
}

// NewMemorySettingsStore creates an empty in-memory store.
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{records: map[string]domainsettings.UserSettings{}}
}

func (s *MemorySettingsStore) Ensure(_ context.Context, userID string) (domainsettings.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EnsureCalls++
	if s.EnsureErr != nil {
		return domainsettings.UserSettings{}, s.EnsureErr
	}
	if record, ok := s.records[userID]; ok {
		return record, nil
	}
	now := time.Now().UTC()
	record := domainsettings.UserSettings{
		UserID:    userID,
		Theme:     domainsettings.DefaultTheme,
		Language:  domainsettings.DefaultLanguage,
		Timezone:  domainsettings.DefaultTimezone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.records[userID] = record
	return record, nil
}

func (s *MemorySettingsStore) Get(_ context.Context, userID string) (domainsettings.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return domainsettings.UserSettings{}, apperrors.NotFound("Settings not found")
	}
	return record, nil
}

func (s *MemorySettingsStore) Update(_ context.Context, userID string, patch domainsettings.Patch) (domainsettings.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[userID]
	if !ok {
		return domainsettings.UserSettings{}, apperrors.NotFound("Settings not found")
	}
	if patch.Theme != nil {
		record.Theme = *patch.Theme
	}
	if patch.Language != nil {
		record.Language = *patch.Language
	}
	if patch.Timezone != nil {
		record.Timezone = *patch.Timezone
	}
	record.UpdatedAt = time.Now().UTC()
	s.records[userID] = record
	return record, nil
}

func (s *MemorySettingsStore) Ping(context.Context) error { return s.PingErr }

// Len reports the number of stored records.
func (s *MemorySettingsStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
