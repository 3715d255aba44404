package httpx

import (
	"context"
	"net/http"

	"github.com/nimbuslabs/authgate/internal/service"
)

// HealthChecker probes the service's dependencies.
type HealthChecker interface {
	Check(ctx context.Context) service.HealthStatus
}

// HealthHandlers provides the health and root status endpoints.
type HealthHandlers struct {
	Svc HealthChecker
}

// Health reports dependency status.
// GET /health.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Svc.Check(r.Context()))
}

// Root is a minimal liveness signal for load balancers and uptime monitors.
// GET /.
func (h *HealthHandlers) Root(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"version": service.Version,
	})
}
