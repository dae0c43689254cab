package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"biblio/internal/auth"
	"biblio/internal/authors"
	"biblio/internal/books"
	"biblio/internal/config"
	"biblio/internal/contacts"
)

// Services bundles the dependencies the router wires into handlers.
type Services struct {
	Auth     *auth.Service
	Google   *auth.GoogleAuthenticator
	Authors  *authors.Service
	Books    *books.Service
	Contacts contacts.Repository
}

// NewRouter wires application routes and middleware using chi.
func NewRouter(cfg config.Config, svcs Services, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))
	r.Use(newSlogMiddleware(logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		renderLanding(w)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})

	authHandler := NewAuthHandler(svcs.Auth, cfg.Environment, logger)
	var google googleAuthenticator
	if svcs.Google != nil {
		google = svcs.Google
	}
	oauthHandler := NewOAuthHandler(google, svcs.Auth, cfg.Environment, logger)
	authorHandler := NewAuthorHandler(svcs.Authors, logger)
	bookHandler := NewBookHandler(svcs.Books, logger)
	contactHandler := NewContactHandler(svcs.Contacts, logger)

	requireAuth := newAuthMiddleware(svcs.Auth, logger)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/google", oauthHandler.InitiateGoogle)
		r.Get("/google/callback", oauthHandler.CallbackGoogle)
		r.Get("/success", authHandler.Success)
		r.Get("/failure", authHandler.Failure)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.Me)
		})
	})

	r.Route("/authors", func(r chi.Router) {
		r.Get("/", authorHandler.List)
		r.Get("/{id}", authorHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", authorHandler.Create)
			r.Put("/{id}", authorHandler.Update)
			r.Delete("/{id}", authorHandler.Delete)
		})
	})

	r.Route("/books", func(r chi.Router) {
		r.Get("/", bookHandler.List)
		r.Get("/{id}", bookHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", bookHandler.Create)
			r.Put("/{id}", bookHandler.Update)
			r.Delete("/{id}", bookHandler.Delete)
		})
	})

	r.Route("/api/contacts", func(r chi.Router) {
		r.Get("/", contactHandler.List)
		r.Get("/{id}", contactHandler.Get)
	})

	r.NotFound(http.NotFoundHandler().ServeHTTP)

	return r
}
