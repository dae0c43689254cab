package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmailTaken is returned when registering an email that already has an account.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned for a failed local login. Callers must not
// reveal whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrValidation is returned when registration input fails validation.
var ErrValidation = errors.New("validation error")

// User represents an authenticated principal. A user holds either an OAuth
// provider identity, a local email/password credential, or both.
type User struct {
	ID           string    `json:"id"`
	ProviderID   string    `json:"-"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session represents a server-side authenticated session.
type Session struct {
	ID        uuid.UUID
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
	UserAgent string
	IPAddress string
}
