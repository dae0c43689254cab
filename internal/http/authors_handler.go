package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"biblio/internal/authors"
)

const dateLayout = "2006-01-02"

// AuthorHandler exposes author CRUD endpoints.
type AuthorHandler struct {
	service *authors.Service
	logger  *slog.Logger
}

// NewAuthorHandler creates a handler.
func NewAuthorHandler(service *authors.Service, logger *slog.Logger) *AuthorHandler {
	return &AuthorHandler{service: service, logger: logger}
}

type authorPayload struct {
	Name        string `json:"name" validate:"required"`
	Bio         string `json:"bio"`
	BirthDate   string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Nationality string `json:"nationality"`
	Website     string `json:"website" validate:"omitempty,url"`
}

func (p authorPayload) toInput() authors.AuthorInput {
	input := authors.AuthorInput{
		Name:        p.Name,
		Bio:         p.Bio,
		Nationality: p.Nationality,
		Website:     p.Website,
	}
	if p.BirthDate != "" {
		// Already validated against the layout.
		if t, err := time.Parse(dateLayout, p.BirthDate); err == nil {
			input.BirthDate = &t
		}
	}
	return input
}

// List returns all authors.
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list authors", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list authors")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns a single author.
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	author, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, author)
}

// Create stores a new author.
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload authorPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	id, err := h.service.Create(r.Context(), payload.toInput())
	if err != nil {
		h.logger.Error("create author", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create author")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update replaces an author document in full.
func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload authorPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := h.service.Replace(r.Context(), chi.URLParam(r, "id"), payload.toInput()); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes an author.
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthorHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authors.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, authors.ErrNotFound):
		writeError(w, http.StatusNotFound, "author not found")
	default:
		h.logger.Error("author service error", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}
