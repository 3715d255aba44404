// Package mocks contains generated GoMock doubles for the ports interfaces.
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=settings_store_mock.go github.com/nimbuslabs/authgate/internal/ports SettingsStore
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=identity_provider_mock.go github.com/nimbuslabs/authgate/internal/ports IdentityProvider
