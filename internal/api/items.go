package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/foundit-unsri/foundit/internal/item"
	"github.com/foundit-unsri/foundit/internal/model"
	"github.com/foundit-unsri/foundit/internal/store"
)

// ItemsHandler serves the public read-only item endpoints.
type ItemsHandler struct {
	Items *item.Service
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.ListUnclaimed(r.Context())
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.Items.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, "Item tidak ditemukan")
		return
	}
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, it)
}
