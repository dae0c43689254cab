package authors

import (
	"errors"
	"time"
)

// ErrNotFound is returned when an author cannot be located.
var ErrNotFound = errors.New("author not found")

// ErrInvalidID is returned when an id cannot be a valid document id.
var ErrInvalidID = errors.New("invalid id")

// Author represents a catalogued author document.
type Author struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Bio         string     `json:"bio,omitempty"`
	BirthDate   *time.Time `json:"birthDate,omitempty"`
	Nationality string     `json:"nationality,omitempty"`
	Website     string     `json:"website,omitempty"`
}

// AuthorInput captures the payload for create and replace operations.
type AuthorInput struct {
	Name        string
	Bio         string
	BirthDate   *time.Time
	Nationality string
	Website     string
}
