package handler

import (
	"net/http"

	"github.com/RileyK05/basic-crm/internal/service"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	healthService *service.HealthChecker
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(healthService *service.HealthChecker) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

// HandleHealth handles GET /health. Anything but healthy is a 503.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := h.healthService.CheckHealth(r.Context())

	code := http.StatusServiceUnavailable
	if status.Status == service.StatusHealthy {
		code = http.StatusOK
	}
	_ = WriteJSON(w, code, status)
}
