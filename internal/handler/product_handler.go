package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/RileyK05/basic-crm/internal/service"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	products *service.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.products.CreateProduct(r.Context(), &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteCreated(w, product)
}

// List handles GET /products?search=&page=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, page, err := h.products.ListProducts(r.Context(), listQuery(r, ""))
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	writeList(w, products, page)
}

// Get handles GET /products/{id} with total revenue
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.products.GetProductDetail(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, detail)
}

// Update handles PUT /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	_ = WriteOK(w, product)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		HandleServiceError(w, r, h.logger, err)
		return
	}
	WriteNoContent(w)
}
