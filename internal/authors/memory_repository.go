package authors

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository stores authors in an in-process map, ideal for local
// development or tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	data  map[string]Author
	order []string
}

// NewInMemoryRepository constructs a repository seeded with optional initial authors.
func NewInMemoryRepository(initial []Author) *InMemoryRepository {
	data := make(map[string]Author)
	order := make([]string, 0, len(initial))
	for _, author := range initial {
		data[author.ID] = author
		order = append(order, author.ID)
	}
	return &InMemoryRepository{data: data, order: order}
}

// List returns all stored authors.
func (r *InMemoryRepository) List(_ context.Context) ([]Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	authors := make([]Author, 0, len(r.order))
	for _, id := range r.order {
		if author, ok := r.data[id]; ok {
			authors = append(authors, author)
		}
	}
	return authors, nil
}

// Get returns an author by id.
func (r *InMemoryRepository) Get(_ context.Context, id string) (Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	author, ok := r.data[id]
	if !ok {
		return Author{}, ErrNotFound
	}
	return author, nil
}

// Create stores a new author.
func (r *InMemoryRepository) Create(_ context.Context, input AuthorInput) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.data[id] = Author{
		ID:          id,
		Name:        input.Name,
		Bio:         input.Bio,
		BirthDate:   input.BirthDate,
		Nationality: input.Nationality,
		Website:     input.Website,
	}
	r.order = append(r.order, id)
	return id, nil
}

// Replace overwrites an existing author.
func (r *InMemoryRepository) Replace(_ context.Context, id string, input AuthorInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	r.data[id] = Author{
		ID:          id,
		Name:        input.Name,
		Bio:         input.Bio,
		BirthDate:   input.BirthDate,
		Nationality: input.Nationality,
		Website:     input.Website,
	}
	return nil
}

// Delete removes an author by id.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
