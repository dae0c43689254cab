package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type repoStub struct {
	findUserByProviderID  func(ctx context.Context, providerID string) (*User, error)
	findUserByEmail       func(ctx context.Context, email string) (*User, error)
	findUserByID          func(ctx context.Context, id string) (*User, error)
	createUser            func(ctx context.Context, user User) (User, error)
	createSession         func(ctx context.Context, session Session, tokenHash string) error
	findSessionByHash     func(ctx context.Context, tokenHash string) (*Session, *User, error)
	deleteSession         func(ctx context.Context, id uuid.UUID) error
	deleteExpiredSessions func(ctx context.Context) (int64, error)
}

func (r *repoStub) FindUserByProviderID(ctx context.Context, providerID string) (*User, error) {
	if r.findUserByProviderID != nil {
		return r.findUserByProviderID(ctx, providerID)
	}
	return nil, nil
}

func (r *repoStub) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	if r.findUserByEmail != nil {
		return r.findUserByEmail(ctx, email)
	}
	return nil, nil
}

func (r *repoStub) FindUserByID(ctx context.Context, id string) (*User, error) {
	if r.findUserByID != nil {
		return r.findUserByID(ctx, id)
	}
	return nil, nil
}

func (r *repoStub) CreateUser(ctx context.Context, user User) (User, error) {
	if r.createUser != nil {
		return r.createUser(ctx, user)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return user, nil
}

func (r *repoStub) CreateSession(ctx context.Context, session Session, tokenHash string) error {
	if r.createSession != nil {
		return r.createSession(ctx, session, tokenHash)
	}
	return nil
}

func (r *repoStub) FindSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, *User, error) {
	if r.findSessionByHash != nil {
		return r.findSessionByHash(ctx, tokenHash)
	}
	return nil, nil, nil
}

func (r *repoStub) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if r.deleteSession != nil {
		return r.deleteSession(ctx, id)
	}
	return nil
}

func (r *repoStub) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	if r.deleteExpiredSessions != nil {
		return r.deleteExpiredSessions(ctx)
	}
	return 0, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, NewTokenIssuer("test-secret", time.Hour), time.Hour)
}

func TestServiceRegisterStoresLoweredEmailAndDigest(t *testing.T) {
	var created User
	repo := &repoStub{
		createUser: func(ctx context.Context, user User) (User, error) {
			created = user
			user.ID = "user-1"
			return user, nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), "  Mixed.Case@Example.COM ", "s3cret!")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created.Email != "mixed.case@example.com" {
		t.Fatalf("expected email to be lower-cased, got %q", created.Email)
	}
	if created.PasswordHash == "" || created.PasswordHash == "s3cret!" {
		t.Fatalf("expected a password digest, got %q", created.PasswordHash)
	}
	if !VerifyPassword("s3cret!", created.PasswordHash) {
		t.Fatal("expected stored digest to verify against the plaintext")
	}
	if user.ID != "user-1" {
		t.Fatalf("expected stored id to be returned, got %q", user.ID)
	}
}

func TestServiceRegisterValidation(t *testing.T) {
	svc := newTestService(&repoStub{})

	if _, err := svc.Register(context.Background(), "not-an-email", "s3cret!"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "user@example.com", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}
}

func TestServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &repoStub{
		findUserByEmail: func(ctx context.Context, email string) (*User, error) {
			if email == "taken@example.com" {
				return &User{ID: "user-1", Email: email}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), "Taken@Example.com", "s3cret!"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for case-insensitive duplicate, got %v", err)
	}
}

func TestServiceRegisterInsertRace(t *testing.T) {
	repo := &repoStub{
		createUser: func(ctx context.Context, user User) (User, error) {
			return User{}, ErrDuplicateUser
		},
	}
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), "user@example.com", "s3cret!"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected insert race to surface as ErrEmailTaken, got %v", err)
	}
}

func TestServiceLoginIssuesToken(t *testing.T) {
	digest, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	repo := &repoStub{
		findUserByEmail: func(ctx context.Context, email string) (*User, error) {
			if email != "user@example.com" {
				return nil, nil
			}
			return &User{ID: "user-1", Email: email, PasswordHash: digest}, nil
		},
	}
	svc := newTestService(repo)

	token, err := svc.Login(context.Background(), "User@Example.COM", "s3cret!")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims, err := svc.tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "user@example.com" {
		t.Fatalf("unexpected claims: subject=%q email=%q", claims.Subject, claims.Email)
	}
}

func TestServiceLoginUniformFailures(t *testing.T) {
	digest, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	repo := &repoStub{
		findUserByEmail: func(ctx context.Context, email string) (*User, error) {
			if email == "known@example.com" {
				return &User{ID: "user-1", Email: email, PasswordHash: digest}, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.Login(context.Background(), "unknown@example.com", "s3cret!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "known@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
}

func TestServiceLoginOAuthOnlyAccount(t *testing.T) {
	repo := &repoStub{
		findUserByEmail: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: "user-1", Email: email, ProviderID: "sub-1"}, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.Login(context.Background(), "oauth@example.com", "s3cret!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected account without password to fail login, got %v", err)
	}
}

func TestServiceResolveProfileUserExisting(t *testing.T) {
	existing := &User{ID: "user-1", ProviderID: "sub-123", DisplayName: "Existing"}
	repo := &repoStub{
		findUserByProviderID: func(ctx context.Context, providerID string) (*User, error) {
			if providerID == "sub-123" {
				return existing, nil
			}
			return nil, nil
		},
		createUser: func(ctx context.Context, user User) (User, error) {
			t.Fatal("CreateUser must not be called for an existing profile")
			return User{}, nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.ResolveProfileUser(context.Background(), &Profile{ProviderID: "sub-123"})
	if err != nil {
		t.Fatalf("ResolveProfileUser returned error: %v", err)
	}
	if user != existing {
		t.Fatalf("expected existing user, got %+v", user)
	}
}

func TestServiceResolveProfileUserCreatesNew(t *testing.T) {
	var created User
	repo := &repoStub{
		createUser: func(ctx context.Context, user User) (User, error) {
			created = user
			user.ID = "user-2"
			return user, nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.ResolveProfileUser(context.Background(), &Profile{
		ProviderID:  "sub-999",
		DisplayName: "New User",
		Emails:      []string{"New@Example.com"},
	})
	if err != nil {
		t.Fatalf("ResolveProfileUser returned error: %v", err)
	}
	if created.ProviderID != "sub-999" || created.DisplayName != "New User" {
		t.Fatalf("unexpected created user: %+v", created)
	}
	if created.Email != "new@example.com" {
		t.Fatalf("expected profile email to be lower-cased, got %q", created.Email)
	}
	if user.ID != "user-2" {
		t.Fatalf("expected stored id to be returned, got %q", user.ID)
	}
}

func TestServiceResolveProfileUserNameFallback(t *testing.T) {
	var created User
	repo := &repoStub{
		createUser: func(ctx context.Context, user User) (User, error) {
			created = user
			return user, nil
		},
	}
	svc := newTestService(repo)

	if _, err := svc.ResolveProfileUser(context.Background(), &Profile{ProviderID: "sub-1", DisplayName: "  "}); err != nil {
		t.Fatalf("ResolveProfileUser returned error: %v", err)
	}
	if created.DisplayName != "Unknown" {
		t.Fatalf("expected display name fallback, got %q", created.DisplayName)
	}
}

func TestServiceResolveProfileUserInsertRaceReloadsWinner(t *testing.T) {
	winner := &User{ID: "user-1", ProviderID: "sub-123"}
	lookups := 0
	repo := &repoStub{
		findUserByProviderID: func(ctx context.Context, providerID string) (*User, error) {
			lookups++
			if lookups == 1 {
				return nil, nil
			}
			return winner, nil
		},
		createUser: func(ctx context.Context, user User) (User, error) {
			return User{}, ErrDuplicateUser
		},
	}
	svc := newTestService(repo)

	user, err := svc.ResolveProfileUser(context.Background(), &Profile{ProviderID: "sub-123"})
	if err != nil {
		t.Fatalf("ResolveProfileUser returned error: %v", err)
	}
	if user != winner {
		t.Fatalf("expected the concurrent winner to be reloaded, got %+v", user)
	}
	if lookups != 2 {
		t.Fatalf("expected a reload lookup after the duplicate insert, got %d lookups", lookups)
	}
}

func TestServiceValidateBearer(t *testing.T) {
	stored := &User{ID: "user-1", Email: "user@example.com"}
	repo := &repoStub{
		findUserByID: func(ctx context.Context, id string) (*User, error) {
			if id == "user-1" {
				return stored, nil
			}
			return nil, nil
		},
	}
	svc := newTestService(repo)

	token, err := svc.IssueToken(stored)
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	user, err := svc.ValidateBearer(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateBearer returned error: %v", err)
	}
	if user != stored {
		t.Fatalf("expected stored user, got %+v", user)
	}
}

func TestServiceValidateBearerInvalidToken(t *testing.T) {
	svc := newTestService(&repoStub{})

	user, err := svc.ValidateBearer(context.Background(), "garbage")
	if err != nil {
		t.Fatalf("ValidateBearer returned error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user for invalid token, got %+v", user)
	}
}

func TestServiceValidateBearerOrphanedSubject(t *testing.T) {
	svc := newTestService(&repoStub{})

	token, err := svc.IssueToken(&User{ID: "deleted-user"})
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	user, err := svc.ValidateBearer(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateBearer returned error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user for deleted subject, got %+v", user)
	}
}

func TestServiceCreateSessionStoresHash(t *testing.T) {
	var storedHash string
	var storedSession Session
	repo := &repoStub{
		createSession: func(ctx context.Context, session Session, tokenHash string) error {
			storedHash = tokenHash
			storedSession = session
			return nil
		},
	}
	svc := newTestService(repo)

	longUA := strings.Repeat("a", 600)
	longIP := strings.Repeat("b", 60)
	token, err := svc.CreateSession(context.Background(), "user-1", longUA, longIP)
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected token to be returned")
	}
	if storedHash != hashSessionToken(token) {
		t.Fatalf("expected token hash to match, got %q", storedHash)
	}
	if storedSession.UserID != "user-1" {
		t.Fatalf("expected session user id user-1, got %s", storedSession.UserID)
	}
	if len(storedSession.UserAgent) != 512 {
		t.Fatalf("expected user agent to be truncated to 512, got %d", len(storedSession.UserAgent))
	}
	if len(storedSession.IPAddress) != 45 {
		t.Fatalf("expected ip address to be truncated to 45, got %d", len(storedSession.IPAddress))
	}
}

func TestServiceValidateSessionEmptyToken(t *testing.T) {
	svc := newTestService(&repoStub{})

	user, err := svc.ValidateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user, got %+v", user)
	}
}

func TestServiceValidateSessionExpired(t *testing.T) {
	var deletedID uuid.UUID
	repo := &repoStub{
		findSessionByHash: func(ctx context.Context, tokenHash string) (*Session, *User, error) {
			return &Session{ID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}, &User{ID: "user-1"}, nil
		},
		deleteSession: func(ctx context.Context, id uuid.UUID) error {
			deletedID = id
			return nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.ValidateSession(context.Background(), "token")
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected expired session to return nil user, got %+v", user)
	}
	if deletedID == uuid.Nil {
		t.Fatal("expected expired session to be deleted")
	}
}

func TestServiceValidateSessionValid(t *testing.T) {
	expected := &User{ID: "user-1", Email: "user@example.com"}
	repo := &repoStub{
		findSessionByHash: func(ctx context.Context, tokenHash string) (*Session, *User, error) {
			return &Session{ID: uuid.New(), ExpiresAt: time.Now().Add(time.Minute)}, expected, nil
		},
	}
	svc := newTestService(repo)

	user, err := svc.ValidateSession(context.Background(), "token")
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if user != expected {
		t.Fatal("expected user to be returned")
	}
}

func TestServiceValidateSessionRepoError(t *testing.T) {
	repo := &repoStub{
		findSessionByHash: func(ctx context.Context, tokenHash string) (*Session, *User, error) {
			return nil, nil, errors.New("boom")
		},
	}
	svc := newTestService(repo)

	_, err := svc.ValidateSession(context.Background(), "token")
	if err == nil || !strings.Contains(err.Error(), "find session") {
		t.Fatalf("expected find session error, got %v", err)
	}
}

func TestServiceDeleteSession(t *testing.T) {
	var deletedID uuid.UUID
	sessionID := uuid.New()
	repo := &repoStub{
		findSessionByHash: func(ctx context.Context, tokenHash string) (*Session, *User, error) {
			return &Session{ID: sessionID}, &User{ID: "user-1"}, nil
		},
		deleteSession: func(ctx context.Context, id uuid.UUID) error {
			deletedID = id
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.DeleteSession(context.Background(), "token"); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}
	if deletedID != sessionID {
		t.Fatalf("expected session %s to be deleted, got %s", sessionID, deletedID)
	}
}

func TestServiceDeleteSessionMissing(t *testing.T) {
	svc := newTestService(&repoStub{})

	if err := svc.DeleteSession(context.Background(), "token"); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}
}

func TestServiceCleanupExpiredSessions(t *testing.T) {
	repo := &repoStub{
		deleteExpiredSessions: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
	}
	svc := newTestService(repo)

	count, err := svc.CleanupExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("CleanupExpiredSessions returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 expired sessions removed, got %d", count)
	}
}
