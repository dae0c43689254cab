package books

import (
	"context"
	"strings"
)

// Service orchestrates normalization and persistence for books.
type Service struct {
	repo Repository
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all catalogued books.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	return s.repo.List(ctx)
}

// Get retrieves a book by id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Create persists a new book and returns its id.
func (s *Service) Create(ctx context.Context, input BookInput) (string, error) {
	return s.repo.Create(ctx, normalize(input))
}

// Replace overwrites an existing book document in full.
func (s *Service) Replace(ctx context.Context, id string, input BookInput) error {
	return s.repo.Replace(ctx, id, normalize(input))
}

// Delete removes a book by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalize(input BookInput) BookInput {
	input.Title = strings.TrimSpace(input.Title)
	input.AuthorID = strings.TrimSpace(input.AuthorID)
	input.ISBN = strings.TrimSpace(input.ISBN)
	input.Genre = strings.TrimSpace(input.Genre)
	input.Summary = strings.TrimSpace(input.Summary)
	return input
}
