package handler

import (
	"net/http"

	"billing-cache-api/internal/service"
	"billing-cache-api/pkg/apierror"
	"billing-cache-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// QueryHandler exposes the predefined query catalogue.
type QueryHandler struct {
	catalog *service.Catalog
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(catalog *service.Catalog) *QueryHandler {
	return &QueryHandler{catalog: catalog}
}

// List handles GET /api/v1/queries
func (h *QueryHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.catalog.All())
}

// Run handles GET /api/v1/queries/{name}
// Inputs come from the first, last and brand query parameters.
func (h *QueryHandler) Run(w http.ResponseWriter, r *http.Request) {
	q, err := h.catalog.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		response.Error(w, err)
		return
	}
	if q.Mutating {
		response.Error(w, apierror.BadRequest(q.Name+" changes data; use POST /api/v1/admin/load"))
		return
	}

	values := r.URL.Query()
	result, err := q.Run(r.Context(), service.Params{
		FirstName: values.Get("first"),
		LastName:  values.Get("last"),
		Brand:     values.Get("brand"),
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}
