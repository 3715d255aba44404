package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nimbuslabs/authgate/internal/errors"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubChecker struct{ err error }

func (s stubChecker) CheckHealth(context.Context) error { return s.err }

func TestHealthCheckAllProbesPass(t *testing.T) {
	svc := NewHealthService(stubChecker{}, stubPinger{}, nil)

	status := svc.Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "connected", status.Details["database"])
	assert.Equal(t, "operational", status.Details["services"])
	assert.Equal(t, Version, status.Version)

	ts, err := time.Parse(time.RFC3339, status.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	svc := NewHealthService(stubChecker{}, stubPinger{err: apperrors.Unavailable("database down")}, nil)

	status := svc.Check(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "error", status.Details["database"])
	assert.Equal(t, "operational", status.Details["services"])
}

func TestHealthCheckUpstreamDown(t *testing.T) {
	svc := NewHealthService(stubChecker{err: apperrors.Unavailable("identity service unreachable")}, stubPinger{}, nil)

	status := svc.Check(context.Background())
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "connected", status.Details["database"])
	assert.Equal(t, "error", status.Details["services"])
}

func TestHealthCheckNilDependencies(t *testing.T) {
	svc := NewHealthService(nil, nil, nil)

	status := svc.Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
}
