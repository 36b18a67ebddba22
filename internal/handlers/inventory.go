// internal/handlers/inventory.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// InventoryHandler handles pantry item requests
type InventoryHandler struct {
	responder
	service ports.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		responder: responder{logger: logger.With(slog.String("handler", "inventory"))},
		service:   service,
	}
}

// AddItemRequest is the body of POST /items.
type AddItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// QuantityResponse reports an item's quantity after a mutation.
type QuantityResponse struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Quantity int    `json:"quantity"`
	Deleted  bool   `json:"deleted,omitempty"`
}

// ListResponse is the body of GET /items.
type ListResponse struct {
	Items    []domain.Item `json:"items"`
	Count    int           `json:"count"`
	Search   string        `json:"search,omitempty"`
	Category string        `json:"category,omitempty"`
}

// ListItems handles GET /api/v1/items
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	namespace, ok := h.namespace(w, r)
	if !ok {
		return
	}

	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")

	items, err := h.service.ListFiltered(r.Context(), namespace, search, category)
	if err != nil {
		h.respondServiceError(w, r, err, "list items")
		return
	}

	h.respondJSON(w, http.StatusOK, ListResponse{
		Items:    items,
		Count:    len(items),
		Search:   search,
		Category: category,
	})
}

// GetItem handles GET /api/v1/items/{name}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	namespace, ok := h.namespace(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), namespace, r.PathValue("name"))
	if err != nil {
		h.respondServiceError(w, r, err, "get item")
		return
	}

	h.respondJSON(w, http.StatusOK, item)
}

// AddItem handles POST /api/v1/items. Each call adds one unit.
func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	namespace, ok := h.namespace(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	quantity, err := h.service.AddOne(r.Context(), namespace, req.Name, req.Category)
	if err != nil {
		h.respondServiceError(w, r, err, "add item")
		return
	}

	status := http.StatusOK
	if quantity == 1 {
		status = http.StatusCreated
	}
	h.respondJSON(w, status, QuantityResponse{
		Name:     domain.NormalizeKey(req.Name),
		Category: req.Category,
		Quantity: quantity,
	})
}

// RemoveOne handles POST /api/v1/items/{name}/remove-one
func (h *InventoryHandler) RemoveOne(w http.ResponseWriter, r *http.Request) {
	namespace, ok := h.namespace(w, r)
	if !ok {
		return
	}

	name := r.PathValue("name")
	quantity, err := h.service.RemoveOneOrDelete(r.Context(), namespace, name)
	if err != nil {
		h.respondServiceError(w, r, err, "remove item")
		return
	}

	h.respondJSON(w, http.StatusOK, QuantityResponse{
		Name:     domain.NormalizeKey(name),
		Quantity: quantity,
		Deleted:  quantity == 0,
	})
}

// DeleteItem handles DELETE /api/v1/items/{name}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	namespace, ok := h.namespace(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveAll(r.Context(), namespace, r.PathValue("name")); err != nil {
		h.respondServiceError(w, r, err, "delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary handles GET /api/v1/summary
func (h *InventoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	namespace, ok := h.namespace(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), namespace)
	if err != nil {
		h.respondServiceError(w, r, err, "summarize items")
		return
	}

	h.respondJSON(w, http.StatusOK, summary)
}

// Categories handles GET /api/v1/categories
func (h *InventoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string][]string{
		"categories": domain.DefaultCategories(),
		"filters":    domain.FilterCategories(),
	})
}
