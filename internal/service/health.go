package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Version is the API version reported by the health and root endpoints.
const Version = "1.0.0"

const healthProbeTimeout = 5 * time.Second

// UpstreamChecker reports upstream identity-service reachability.
type UpstreamChecker interface {
	CheckHealth(ctx context.Context) error
}

// StorePinger reports settings-store reachability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string            `json:"status"`
	Details   map[string]string `json:"details"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
}

// HealthService probes the service's dependencies.
type HealthService struct {
	upstream UpstreamChecker
	store    StorePinger
	logger   *slog.Logger
}

// NewHealthService constructs a HealthService. Either dependency may be nil,
// in which case it is reported as operational without probing.
func NewHealthService(upstream UpstreamChecker, store StorePinger, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{upstream: upstream, store: store, logger: logger}
}

// Check probes the database and the upstream identity service concurrently
// and folds the results into a single status. The overall status is
// "healthy" only when every probe passes.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	dbStatus := "connected"
	servicesStatus := "operational"

	g, ctx := errgroup.WithContext(ctx)
	if s.store != nil {
		g.Go(func() error {
			if err := s.store.Ping(ctx); err != nil {
				s.logger.Warn("health: database probe failed", "error", err)
				dbStatus = "error"
			}
			return nil
		})
	}
	if s.upstream != nil {
		g.Go(func() error {
			if err := s.upstream.CheckHealth(ctx); err != nil {
				s.logger.Warn("health: upstream probe failed", "error", err)
				servicesStatus = "error"
			}
			return nil
		})
	}
	// Probes record failures instead of returning them; Wait only joins.
	_ = g.Wait()

	status := "healthy"
	if dbStatus != "connected" || servicesStatus != "operational" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:    status,
		Details:   map[string]string{"database": dbStatus, "services": servicesStatus},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	}
}
