package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"biblio/internal/contacts"
)

// ContactHandler exposes the legacy read-only contacts endpoints.
type ContactHandler struct {
	repo   contacts.Repository
	logger *slog.Logger
}

// NewContactHandler creates a handler.
func NewContactHandler(repo contacts.Repository, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{repo: repo, logger: logger}
}

// List returns all contacts.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list contacts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns a single contact.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contact, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, contacts.ErrInvalidID):
			writeError(w, http.StatusBadRequest, "invalid id")
		case errors.Is(err, contacts.ErrNotFound):
			writeError(w, http.StatusNotFound, "contact not found")
		default:
			h.logger.Error("get contact", "error", err)
			writeError(w, http.StatusInternalServerError, "unexpected error")
		}
		return
	}
	writeJSON(w, http.StatusOK, contact)
}
