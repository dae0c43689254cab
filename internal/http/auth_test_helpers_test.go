package http

import (
	"context"
	"io"
	"log/slog"
	"time"

	"biblio/internal/auth"

	"github.com/google/uuid"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(repo auth.Repository) *auth.Service {
	return auth.NewService(repo, auth.NewTokenIssuer("test-secret", time.Hour), time.Hour)
}

type authRepoStub struct {
	findUserByProviderID  func(ctx context.Context, providerID string) (*auth.User, error)
	findUserByEmail       func(ctx context.Context, email string) (*auth.User, error)
	findUserByID          func(ctx context.Context, id string) (*auth.User, error)
	createUser            func(ctx context.Context, user auth.User) (auth.User, error)
	createSession         func(ctx context.Context, session auth.Session, tokenHash string) error
	findSessionByHash     func(ctx context.Context, tokenHash string) (*auth.Session, *auth.User, error)
	deleteSession         func(ctx context.Context, id uuid.UUID) error
	deleteExpiredSessions func(ctx context.Context) (int64, error)
}

func (r *authRepoStub) FindUserByProviderID(ctx context.Context, providerID string) (*auth.User, error) {
	if r.findUserByProviderID != nil {
		return r.findUserByProviderID(ctx, providerID)
	}
	return nil, nil
}

func (r *authRepoStub) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	if r.findUserByEmail != nil {
		return r.findUserByEmail(ctx, email)
	}
	return nil, nil
}

func (r *authRepoStub) FindUserByID(ctx context.Context, id string) (*auth.User, error) {
	if r.findUserByID != nil {
		return r.findUserByID(ctx, id)
	}
	return nil, nil
}

func (r *authRepoStub) CreateUser(ctx context.Context, user auth.User) (auth.User, error) {
	if r.createUser != nil {
		return r.createUser(ctx, user)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return user, nil
}

func (r *authRepoStub) CreateSession(ctx context.Context, session auth.Session, tokenHash string) error {
	if r.createSession != nil {
		return r.createSession(ctx, session, tokenHash)
	}
	return nil
}

func (r *authRepoStub) FindSessionByTokenHash(ctx context.Context, tokenHash string) (*auth.Session, *auth.User, error) {
	if r.findSessionByHash != nil {
		return r.findSessionByHash(ctx, tokenHash)
	}
	return nil, nil, nil
}

func (r *authRepoStub) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if r.deleteSession != nil {
		return r.deleteSession(ctx, id)
	}
	return nil
}

func (r *authRepoStub) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	if r.deleteExpiredSessions != nil {
		return r.deleteExpiredSessions(ctx)
	}
	return 0, nil
}
