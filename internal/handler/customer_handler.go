package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/service"
)

// CustomerHandler handles HTTP requests for customers, their notes and their
// lifetime value
type CustomerHandler struct {
	customers *service.CustomerService
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customers *service.CustomerService, analytics *service.AnalyticsService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, analytics: analytics, logger: logger}
}

// Create handles POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.customers.CreateCustomer(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteCreated(w, customer)
}

// List handles GET /customers?search=&page=
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, page, err := h.customers.ListCustomers(r.Context(), listQuery(r, ""))
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	writeList(w, customers, page)
}

// Get handles GET /customers/{id} with notes and derived metrics
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.customers.GetCustomerDetail(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, detail)
}

// Update handles PUT /customers/{id}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.customers.UpdateCustomer(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, customer)
}

// Delete handles DELETE /customers/{id}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.customers.DeleteCustomer(r.Context(), id); err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	WriteNoContent(w)
}

// Autocomplete handles GET /customers/autocomplete?term=
func (h *CustomerHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	matches, err := h.customers.Autocomplete(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, matches)
}

// ListNotes handles GET /customers/{id}/notes
func (h *CustomerHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	notes, err := h.customers.ListNotes(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, notes)
}

// AddNote handles POST /customers/{id}/notes
func (h *CustomerHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.customers.AddNote(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteCreated(w, note)
}

// UpdateNote handles PUT /notes/{id}
func (h *CustomerHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.customers.UpdateNote(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, note)
}

// DeleteNote handles DELETE /notes/{id}
func (h *CustomerHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.customers.DeleteNote(r.Context(), id); err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	WriteNoContent(w)
}

// GetLifetimeValue handles GET /customers/{id}/lifetime-value
func (h *CustomerHandler) GetLifetimeValue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	row, err := h.analytics.GetOrCreateLifetimeValue(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, row)
}

// UpdateLifetimeValue handles PUT /customers/{id}/lifetime-value
func (h *CustomerHandler) UpdateLifetimeValue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.LifetimeValueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	row, err := h.analytics.UpdateLifetimeValue(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, row)
}

// RecalculateLifetimeValue handles POST /customers/{id}/lifetime-value/recalculate?persist=
func (h *CustomerHandler) RecalculateLifetimeValue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	persist := false
	if raw := r.URL.Query().Get("persist"); raw != "" {
		var err error
		if persist, err = strconv.ParseBool(raw); err != nil {
			WriteValidationError(w, "invalid persist: must be true or false")
			return
		}
	}

	result, err := h.analytics.RecalculateLifetimeValue(r.Context(), id, persist)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, result)
}
