package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/service"
)

// DashboardHandler serves the dashboard aggregate
type DashboardHandler struct {
	dashboard *service.DashboardService
	logger    *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

// Get handles GET /dashboard. Each embedded list takes its own
// <list>_search and <list>_page parameters, e.g. lead_search and lead_page.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := service.DashboardQuery{
		Limit:       h.dashboard.ResolveLimit(r.URL.Query().Get("limit")),
		Customers:   listQuery(r, "customer_"),
		Leads:       listQuery(r, "lead_"),
		Products:    listQuery(r, "product_"),
		Engagements: listQuery(r, "engagement_"),
	}

	dash, err := h.dashboard.GetDashboard(r.Context(), q)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, dash)
}
