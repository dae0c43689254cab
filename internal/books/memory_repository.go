package books

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository stores books in an in-process map, ideal for local
// development or tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	data  map[string]Book
	order []string
}

// NewInMemoryRepository constructs a repository seeded with optional initial books.
func NewInMemoryRepository(initial []Book) *InMemoryRepository {
	data := make(map[string]Book)
	order := make([]string, 0, len(initial))
	for _, book := range initial {
		data[book.ID] = book
		order = append(order, book.ID)
	}
	return &InMemoryRepository{data: data, order: order}
}

// List returns all stored books.
func (r *InMemoryRepository) List(_ context.Context) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]Book, 0, len(r.order))
	for _, id := range r.order {
		if book, ok := r.data[id]; ok {
			books = append(books, book)
		}
	}
	return books, nil
}

// Get returns a book by id.
func (r *InMemoryRepository) Get(_ context.Context, id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.data[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return book, nil
}

// Create stores a new book.
func (r *InMemoryRepository) Create(_ context.Context, input BookInput) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.data[id] = bookFromInput(id, input)
	r.order = append(r.order, id)
	return id, nil
}

// Replace overwrites an existing book.
func (r *InMemoryRepository) Replace(_ context.Context, id string, input BookInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	r.data[id] = bookFromInput(id, input)
	return nil
}

// Delete removes a book by id.
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

func bookFromInput(id string, input BookInput) Book {
	return Book{
		ID:            id,
		Title:         input.Title,
		AuthorID:      input.AuthorID,
		ISBN:          input.ISBN,
		PublishedDate: input.PublishedDate,
		Pages:         input.Pages,
		Genre:         input.Genre,
		Summary:       input.Summary,
		Rating:        input.Rating,
	}
}
