package authors

import "context"

// Repository defines the interface for author persistence.
type Repository interface {
	List(ctx context.Context) ([]Author, error)
	Get(ctx context.Context, id string) (Author, error)
	Create(ctx context.Context, input AuthorInput) (string, error)
	Replace(ctx context.Context, id string, input AuthorInput) error
	Delete(ctx context.Context, id string) error
}
