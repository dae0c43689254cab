package authors

import (
	"context"
	"strings"
)

// Service orchestrates normalization and persistence for authors.
type Service struct {
	repo Repository
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all catalogued authors.
func (s *Service) List(ctx context.Context) ([]Author, error) {
	return s.repo.List(ctx)
}

// Get retrieves an author by id.
func (s *Service) Get(ctx context.Context, id string) (Author, error) {
	return s.repo.Get(ctx, id)
}

// Create persists a new author and returns its id.
func (s *Service) Create(ctx context.Context, input AuthorInput) (string, error) {
	return s.repo.Create(ctx, normalize(input))
}

// Replace overwrites an existing author document in full.
func (s *Service) Replace(ctx context.Context, id string, input AuthorInput) error {
	return s.repo.Replace(ctx, id, normalize(input))
}

// Delete removes an author by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalize(input AuthorInput) AuthorInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Bio = strings.TrimSpace(input.Bio)
	input.Nationality = strings.TrimSpace(input.Nationality)
	input.Website = strings.TrimSpace(input.Website)
	return input
}
