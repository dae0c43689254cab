package books

import "context"

// Repository defines the interface for book persistence.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id string) (Book, error)
	Create(ctx context.Context, input BookInput) (string, error)
	Replace(ctx context.Context, id string, input BookInput) error
	Delete(ctx context.Context, id string) error
}
