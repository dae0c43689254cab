package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type sessionRecord struct {
	session   Session
	tokenHash string
}

// InMemoryRepository stores users and sessions in process memory, ideal for
// local development or tests. Uniqueness of provider id and email is enforced
// the same way the document store's indexes do.
type InMemoryRepository struct {
	mu         sync.RWMutex
	users      map[string]User
	byProvider map[string]string
	byEmail    map[string]string
	sessions   map[string]sessionRecord
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users:      make(map[string]User),
		byProvider: make(map[string]string),
		byEmail:    make(map[string]string),
		sessions:   make(map[string]sessionRecord),
	}
}

// FindUserByProviderID returns the user owning the provider identity, or nil.
func (r *InMemoryRepository) FindUserByProviderID(_ context.Context, providerID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byProvider[providerID]
	if !ok {
		return nil, nil
	}
	user := r.users[id]
	return &user, nil
}

// FindUserByEmail returns the user registered with the email, or nil.
func (r *InMemoryRepository) FindUserByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	user := r.users[id]
	return &user, nil
}

// FindUserByID returns the user with the internal id, or nil.
func (r *InMemoryRepository) FindUserByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// CreateUser assigns an id and stores the user, rejecting duplicates.
func (r *InMemoryRepository) CreateUser(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ProviderID != "" {
		if _, exists := r.byProvider[user.ProviderID]; exists {
			return User{}, ErrDuplicateUser
		}
	}
	if user.Email != "" {
		if _, exists := r.byEmail[user.Email]; exists {
			return User{}, ErrDuplicateUser
		}
	}

	user.ID = uuid.NewString()
	r.users[user.ID] = user
	if user.ProviderID != "" {
		r.byProvider[user.ProviderID] = user.ID
	}
	if user.Email != "" {
		r.byEmail[user.Email] = user.ID
	}
	return user, nil
}

// CreateSession stores a session keyed by its token hash.
func (r *InMemoryRepository) CreateSession(_ context.Context, session Session, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[tokenHash] = sessionRecord{session: session, tokenHash: tokenHash}
	return nil
}

// FindSessionByTokenHash returns the session and its user, or nils.
func (r *InMemoryRepository) FindSessionByTokenHash(_ context.Context, tokenHash string) (*Session, *User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.sessions[tokenHash]
	if !ok {
		return nil, nil, nil
	}
	user, ok := r.users[record.session.UserID]
	if !ok {
		return nil, nil, nil
	}
	session := record.session
	return &session, &user, nil
}

// DeleteSession removes a session by id.
func (r *InMemoryRepository) DeleteSession(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, record := range r.sessions {
		if record.session.ID == id {
			delete(r.sessions, hash)
			break
		}
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry.
func (r *InMemoryRepository) DeleteExpiredSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int64
	for hash, record := range r.sessions {
		if now.After(record.session.ExpiresAt) {
			delete(r.sessions, hash)
			removed++
		}
	}
	return removed, nil
}
