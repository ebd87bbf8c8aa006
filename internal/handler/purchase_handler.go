package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/service"
)

// PurchaseHandler handles HTTP requests for purchases
type PurchaseHandler struct {
	purchases *service.PurchaseService
	logger    *zap.Logger
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchases *service.PurchaseService, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, logger: logger}
}

// Create handles POST /purchases
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	purchase, err := h.purchases.CreatePurchase(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteCreated(w, purchase)
}

// List handles GET /purchases?search=&page=
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	purchases, page, err := h.purchases.ListPurchases(r.Context(), listQuery(r, ""))
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	writeList(w, purchases, page)
}

// Get handles GET /purchases/{id}
func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	purchase, err := h.purchases.GetPurchase(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, purchase)
}

// Update handles PUT /purchases/{id}
func (h *PurchaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	purchase, err := h.purchases.UpdatePurchase(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, purchase)
}

// Delete handles DELETE /purchases/{id}
func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.purchases.DeletePurchase(r.Context(), id); err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	WriteNoContent(w)
}
