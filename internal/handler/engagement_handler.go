package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/service"
)

// EngagementHandler handles HTTP requests for engagements
type EngagementHandler struct {
	engagements *service.EngagementService
	logger      *zap.Logger
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagements *service.EngagementService, logger *zap.Logger) *EngagementHandler {
	return &EngagementHandler{engagements: engagements, logger: logger}
}

// Create handles POST /engagements
func (h *EngagementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.EngagementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	engagement, err := h.engagements.CreateEngagement(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteCreated(w, engagement)
}

// List handles GET /engagements?search=&page=
func (h *EngagementHandler) List(w http.ResponseWriter, r *http.Request) {
	engagements, page, err := h.engagements.ListEngagements(r.Context(), listQuery(r, ""))
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	writeList(w, engagements, page)
}

// Get handles GET /engagements/{id}
func (h *EngagementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	engagement, err := h.engagements.GetEngagement(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, engagement)
}

// Update handles PUT /engagements/{id}
func (h *EngagementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.EngagementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	engagement, err := h.engagements.UpdateEngagement(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, engagement)
}

// Delete handles DELETE /engagements/{id}
func (h *EngagementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.engagements.DeleteEngagement(r.Context(), id); err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	WriteNoContent(w)
}
