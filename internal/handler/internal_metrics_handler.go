package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/service"
)

// InternalMetricsHandler handles HTTP requests for the company metrics
type InternalMetricsHandler struct {
	metrics *service.InternalMetricsService
	logger  *zap.Logger
}

// NewInternalMetricsHandler creates a new internal metrics handler
func NewInternalMetricsHandler(metrics *service.InternalMetricsService, logger *zap.Logger) *InternalMetricsHandler {
	return &InternalMetricsHandler{metrics: metrics, logger: logger}
}

// MetricValueRequest sets one named metric. Value may be a JSON string, a
// number or null.
type MetricValueRequest struct {
	Value json.RawMessage `json:"value"`
}

// text returns the value as text, or nil for null or a missing value
func (r *MetricValueRequest) text() (*string, bool) {
	raw := bytes.TrimSpace(r.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		return &s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, false
	}
	s := n.String()
	return &s, true
}

// AverageLifetimeValueRequest sets the stored average lifetime value
type AverageLifetimeValueRequest struct {
	AverageLifetimeValue decimal.NullDecimal `json:"average_lifetime_value"`
}

// Get handles GET /internal/metrics
func (h *InternalMetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.metrics.GetMetrics(r.Context())
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, metrics)
}

// Update handles PUT /internal/metrics
func (h *InternalMetricsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.InternalMetricsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	metrics, err := h.metrics.UpdateMetrics(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, metrics)
}

// UpdateMetric handles PUT /internal/metrics/{metric}
func (h *InternalMetricsHandler) UpdateMetric(w http.ResponseWriter, r *http.Request) {
	var req MetricValueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	value, ok := req.text()
	if !ok {
		WriteValidationError(w, "value must be a string, a number or null")
		return
	}

	metrics, err := h.metrics.UpdateMetric(r.Context(), mux.Vars(r)["metric"], value)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, metrics)
}

// UpdateAverageLifetimeValue handles PUT /internal/lifetime-value
func (h *InternalMetricsHandler) UpdateAverageLifetimeValue(w http.ResponseWriter, r *http.Request) {
	var req AverageLifetimeValueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	metrics, err := h.metrics.UpdateAverageLifetimeValue(r.Context(), req.AverageLifetimeValue)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, metrics)
}

// RecalculateAverageLifetimeValue handles POST /internal/lifetime-value/recalculate
func (h *InternalMetricsHandler) RecalculateAverageLifetimeValue(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.metrics.RecalculateAverageLifetimeValue(r.Context())
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, metrics)
}
