package handler

import (
	"net/http"

	"billing-cache-api/internal/model"
	"billing-cache-api/internal/service"
	"billing-cache-api/pkg/response"
)

// ProductHandler handles product HTTP requests.
type ProductHandler struct {
	products *service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, products)
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	code, err := intParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	product, err := h.products.Get(r.Context(), code)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, product)
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	product, err := h.products.Create(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, product)
}

// Update handles PUT /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	code, err := intParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var in model.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	product, err := h.products.Update(r.Context(), code, in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, product)
}
