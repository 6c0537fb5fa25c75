package handler

import (
	"net/http"

	"billing-cache-api/internal/model"
	"billing-cache-api/internal/service"
	"billing-cache-api/pkg/response"
)

// ClientHandler handles client HTTP requests.
type ClientHandler struct {
	clients *service.ClientService
}

// NewClientHandler creates a new client handler.
func NewClientHandler(clients *service.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// clientRequest is the body of client create and update. Active defaults to true.
type clientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Active    *bool  `json:"active"`
}

func (c clientRequest) input() model.ClientInput {
	active := true
	if c.Active != nil {
		active = *c.Active
	}
	return model.ClientInput{FirstName: c.FirstName, LastName: c.LastName, Address: c.Address, Active: active}
}

// List handles GET /api/v1/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, clients)
}

// Get handles GET /api/v1/clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	client, err := h.clients.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, client)
}

// Create handles POST /api/v1/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	client, err := h.clients.Create(r.Context(), req.input())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, client)
}

// Update handles PUT /api/v1/clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	client, err := h.clients.Update(r.Context(), id, req.input())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, client)
}

// Delete handles DELETE /api/v1/clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.clients.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
