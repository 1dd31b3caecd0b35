package api

import (
	"net/http"
	"time"

	"github.com/fieldops/boardgate/internal/api/respond"
)

// HealthHandler reports the aggregate dependency health.
type HealthHandler struct {
	isHealthy func() bool
}

// NewHealthHandler creates a health handler over the given probe.
func NewHealthHandler(isHealthy func() bool) *HealthHandler {
	return &HealthHandler{isHealthy: isHealthy}
}

// CheckHealth handles GET /api/health.
// Always returns 200; the body reports healthy/unhealthy. A non-200 status
// indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if h.isHealthy != nil && h.isHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
