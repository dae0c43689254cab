package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const minPasswordLength = 6

// Service orchestrates registration, login, OAuth user resolution, and
// server-side sessions.
type Service struct {
	repo       Repository
	tokens     *TokenIssuer
	sessionTTL time.Duration
}

// NewService creates a new auth Service.
func NewService(repo Repository, tokens *TokenIssuer, sessionTTL time.Duration) *Service {
	if sessionTTL == 0 {
		sessionTTL = 12 * time.Hour
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

// Register creates a local email/password account. The email is stored
// lower-cased; a duplicate (compared case-insensitively) fails with ErrEmailTaken.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	existing, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	digest, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.CreateUser(ctx, User{
		Email:        email,
		PasswordHash: digest,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// A concurrent registration may win the insert between the lookup and here.
		if errors.Is(err, ErrDuplicateUser) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &created, nil
}

// Login verifies a local credential and issues a bearer token. Unknown email
// and wrong password both return ErrInvalidCredentials, and both cost one
// bcrypt comparison so the two cases are not distinguishable by timing.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	if user == nil || user.PasswordHash == "" {
		VerifyPassword(password, dummyDigest)
		return "", ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID, user.Email)
}

// ResolveProfileUser finds the user owning an OAuth profile, creating one on
// first sight. When a concurrent callback wins the insert, the store rejects
// the duplicate provider id and the existing user is reloaded.
func (s *Service) ResolveProfileUser(ctx context.Context, profile *Profile) (*User, error) {
	existing, err := s.repo.FindUserByProviderID(ctx, profile.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	name := strings.TrimSpace(profile.DisplayName)
	if name == "" {
		name = "Unknown"
	}

	newUser := User{
		ProviderID:  profile.ProviderID,
		DisplayName: name,
		CreatedAt:   time.Now().UTC(),
	}
	if len(profile.Emails) > 0 {
		newUser.Email = strings.ToLower(strings.TrimSpace(profile.Emails[0]))
	}

	created, err := s.repo.CreateUser(ctx, newUser)
	if err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			winner, findErr := s.repo.FindUserByProviderID(ctx, profile.ProviderID)
			if findErr != nil {
				return nil, fmt.Errorf("reload user: %w", findErr)
			}
			if winner != nil {
				return winner, nil
			}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &created, nil
}

// IssueToken signs a bearer token for the given user.
func (s *Service) IssueToken(user *User) (string, error) {
	return s.tokens.Issue(user.ID, user.Email)
}

// ValidateBearer verifies a bearer token and loads the user it names.
// Invalid, expired, or orphaned tokens return (nil, nil).
func (s *Service) ValidateBearer(ctx context.Context, raw string) (*User, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, nil
	}

	user, err := s.repo.FindUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UserByID fetches a user by internal id; nil when absent.
func (s *Service) UserByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindUserByID(ctx, id)
}

// CreateSession creates a new session for the given user and returns the session token.
func (s *Service) CreateSession(ctx context.Context, userID string, userAgent, ipAddress string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)
	tokenHash := hashSessionToken(token)

	now := time.Now()
	session := Session{
		ID:        uuid.New(),
		UserID:    userID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
		UserAgent: truncateString(userAgent, 512),
		IPAddress: truncateString(ipAddress, 45),
	}

	if err := s.repo.CreateSession(ctx, session, tokenHash); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return token, nil
}

// ValidateSession checks if the token is valid and returns the associated user.
func (s *Service) ValidateSession(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}

	tokenHash := hashSessionToken(token)
	session, user, err := s.repo.FindSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	if session == nil || user == nil {
		return nil, nil
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.repo.DeleteSession(ctx, session.ID)
		return nil, nil
	}

	return user, nil
}

// DeleteSession removes the session associated with the given token. Bearer
// tokens have no server state, so logout for token-only clients is a no-op here.
func (s *Service) DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	tokenHash := hashSessionToken(token)
	session, _, err := s.repo.FindSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}

	if session == nil {
		return nil
	}

	return s.repo.DeleteSession(ctx, session.ID)
}

// CleanupExpiredSessions removes all expired sessions from the store.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx)
}

// hashSessionToken returns the SHA-256 hash of the token as a hex string.
// Only the hash is persisted.
func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// truncateString truncates a string to the given max length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
