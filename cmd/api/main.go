package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"biblio/internal/auth"
	"biblio/internal/authors"
	"biblio/internal/books"
	"biblio/internal/config"
	"biblio/internal/contacts"
	transporthttp "biblio/internal/http"
	"biblio/internal/platform/database"
	"biblio/internal/platform/logging"
)

const sessionCleanupInterval = time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)

	if cfg.UsingInsecureJWTSecret() {
		logger.Warn("JWT_SECRET not configured; using the insecure fallback secret. Tokens are forgeable.")
	}

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repositories", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(repos.auth, tokens, cfg.SessionTTL)

	var google *auth.GoogleAuthenticator
	if cfg.GoogleConfigured() {
		google, err = auth.NewGoogleAuthenticator(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
		if err != nil {
			logger.Error("failed to initialize Google authenticator", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("Google OAuth client credentials missing; /auth/google endpoints disabled")
	}

	router := transporthttp.NewRouter(cfg, transporthttp.Services{
		Auth:     authSvc,
		Google:   google,
		Authors:  authors.NewService(repos.authors),
		Books:    books.NewService(repos.books),
		Contacts: repos.contacts,
	}, logger)

	go cleanupSessions(ctx, authSvc, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("biblio API listening", "addr", srv.Addr, "store", cfg.DataStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

type repositories struct {
	auth     auth.Repository
	authors  authors.Repository
	books    books.Repository
	contacts contacts.Repository
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory repositories")
		return repositories{
			auth:     auth.NewInMemoryRepository(),
			authors:  authors.NewInMemoryRepository(nil),
			books:    books.NewInMemoryRepository(nil),
			contacts: contacts.NewInMemoryRepository(seedContacts()),
		}, nil, nil
	}

	client, err := database.NewMongo(ctx, cfg.MongoURL)
	if err != nil {
		return repositories{}, nil, err
	}

	cleanup := func() {
		_ = client.Disconnect(context.Background())
	}

	db := client.Database(cfg.DatabaseName)

	authRepo := auth.NewMongoRepository(db)
	if err := authRepo.EnsureIndexes(ctx); err != nil {
		cleanup()
		return repositories{}, nil, err
	}

	logger.Info("connected to mongo", "database", cfg.DatabaseName)
	return repositories{
		auth:     authRepo,
		authors:  authors.NewMongoRepository(db),
		books:    books.NewMongoRepository(db),
		contacts: contacts.NewMongoRepository(db),
	}, cleanup, nil
}

func cleanupSessions(ctx context.Context, authSvc *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := authSvc.CleanupExpiredSessions(ctx)
			if err != nil {
				logger.Error("session cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("expired sessions removed", "count", removed)
			}
		}
	}
}
