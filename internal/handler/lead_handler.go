package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/service"
)

// LeadHandler handles HTTP requests for leads
type LeadHandler struct {
	leads  *service.LeadService
	logger *zap.Logger
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leads *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, logger: logger}
}

// Create handles POST /leads
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.LeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lead, err := h.leads.CreateLead(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteCreated(w, lead)
}

// List handles GET /leads?search=&page=
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, page, err := h.leads.ListLeads(r.Context(), listQuery(r, ""))
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	writeList(w, leads, page)
}

// Get handles GET /leads/{id} with its display name and days in pipeline
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.leads.GetLeadDetail(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, detail)
}

// Update handles PUT /leads/{id}
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.LeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lead, err := h.leads.UpdateLead(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, lead)
}

// Delete handles DELETE /leads/{id}
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.leads.DeleteLead(r.Context(), id); err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	WriteNoContent(w)
}
