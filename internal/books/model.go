package books

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book cannot be located.
var ErrNotFound = errors.New("book not found")

// ErrInvalidID is returned when an id cannot be a valid document id.
var ErrInvalidID = errors.New("invalid id")

// Book represents a catalogued book document. AuthorID references an author
// document; the reference is stored opaquely and not enforced across collections.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AuthorID      string    `json:"authorId"`
	ISBN          string    `json:"isbn"`
	PublishedDate time.Time `json:"publishedDate"`
	Pages         int       `json:"pages"`
	Genre         string    `json:"genre"`
	Summary       string    `json:"summary,omitempty"`
	Rating        float64   `json:"rating"`
}

// BookInput captures the payload for create and replace operations.
type BookInput struct {
	Title         string
	AuthorID      string
	ISBN          string
	PublishedDate time.Time
	Pages         int
	Genre         string
	Summary       string
	Rating        float64
}
