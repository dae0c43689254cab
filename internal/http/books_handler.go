package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"biblio/internal/books"
)

// BookHandler exposes book CRUD endpoints.
type BookHandler struct {
	service *books.Service
	logger  *slog.Logger
}

// NewBookHandler creates a handler.
func NewBookHandler(service *books.Service, logger *slog.Logger) *BookHandler {
	return &BookHandler{service: service, logger: logger}
}

type bookPayload struct {
	Title         string  `json:"title" validate:"required"`
	AuthorID      string  `json:"authorId" validate:"required"`
	ISBN          string  `json:"isbn" validate:"required"`
	PublishedDate string  `json:"publishedDate" validate:"required,datetime=2006-01-02"`
	Pages         int     `json:"pages" validate:"required,min=1"`
	Genre         string  `json:"genre" validate:"required"`
	Summary       string  `json:"summary"`
	Rating        float64 `json:"rating" validate:"min=0,max=5"`
}

func (p bookPayload) toInput() books.BookInput {
	published, _ := time.Parse(dateLayout, p.PublishedDate)
	return books.BookInput{
		Title:         p.Title,
		AuthorID:      p.AuthorID,
		ISBN:          p.ISBN,
		PublishedDate: published,
		Pages:         p.Pages,
		Genre:         p.Genre,
		Summary:       p.Summary,
		Rating:        p.Rating,
	}
}

// List returns all books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list books", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list books")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns a single book.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

// Create stores a new book.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload bookPayload
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
		h.logger.Error("create book", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create book")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update replaces a book document in full.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload bookPayload
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

// Delete removes a book.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, books.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid id")
	case errors.Is(err, books.ErrNotFound):
		writeError(w, http.StatusNotFound, "book not found")
	default:
		h.logger.Error("book service error", "error", err)
		writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}
