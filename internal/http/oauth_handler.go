package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"biblio/internal/auth"
)

type googleAuthenticator interface {
	AuthURL() string
	Exchange(ctx context.Context, code string) (*auth.Profile, error)
}

// OAuthHandler handles the Google OAuth endpoints. A nil authenticator means
// the server runs without client credentials and both endpoints answer 501.
type OAuthHandler struct {
	google       googleAuthenticator
	authService  *auth.Service
	logger       *slog.Logger
	secureCookie bool
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(google googleAuthenticator, authService *auth.Service, env string, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		google:       google,
		authService:  authService,
		logger:       logger,
		secureCookie: !strings.EqualFold(env, "development"),
	}
}

// InitiateGoogle handles GET /auth/google.
// Redirects the user to Google's OAuth consent screen.
func (h *OAuthHandler) InitiateGoogle(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusNotImplemented, "Google OAuth not configured on this server.")
		return
	}
	http.Redirect(w, r, h.google.AuthURL(), http.StatusFound)
}

// CallbackGoogle handles GET /auth/google/callback.
// Exchanges the authorization code for a profile, resolves the user,
// establishes a session, and issues a bearer token.
func (h *OAuthHandler) CallbackGoogle(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusNotImplemented, "Google OAuth not configured on this server.")
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn("oauth callback: provider error", "error", errParam, "description", r.URL.Query().Get("error_description"))
		writeError(w, http.StatusUnauthorized, "OAuth failed")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusUnauthorized, "Missing authorization code")
		return
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		var exchangeErr *auth.ExchangeError
		if errors.As(err, &exchangeErr) {
			// Detail may contain the raw provider body; log it, never return it.
			h.logger.Error("oauth callback: exchange failed", "kind", string(exchangeErr.Kind), "detail", exchangeErr.Detail, "error", err)
		} else {
			h.logger.Error("oauth callback: exchange failed", "error", err)
		}
		writeError(w, http.StatusUnauthorized, "OAuth failed")
		return
	}

	user, err := h.authService.ResolveProfileUser(r.Context(), profile)
	if err != nil {
		h.logger.Error("oauth callback: user resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to resolve user account")
		return
	}

	sessionToken, err := h.authService.CreateSession(r.Context(), user.ID, r.UserAgent(), clientIPFromRequest(r))
	if err != nil {
		h.logger.Error("oauth callback: session creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		h.logger.Error("oauth callback: token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Token generation failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionCookieTTL.Seconds()),
	})

	h.logger.Info("oauth login successful", "user_id", user.ID)

	http.Redirect(w, r, "/auth/success?token="+url.QueryEscape(token), http.StatusFound)
}
