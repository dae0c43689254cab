package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrDuplicateUser is returned by CreateUser when a uniqueness constraint on
// provider id or email is violated. The store enforces uniqueness; callers
// treat the loser of a concurrent insert as "reload the existing user".
var ErrDuplicateUser = errors.New("duplicate user")

// Repository defines the interface for user and session persistence.
// Find methods return (nil, nil) when no document matches.
type Repository interface {
	// User operations
	FindUserByProviderID(ctx context.Context, providerID string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, user User) (User, error)

	// Session operations
	CreateSession(ctx context.Context, session Session, tokenHash string) error
	FindSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, *User, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
