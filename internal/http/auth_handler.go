package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"biblio/internal/auth"
)

const (
	sessionCookieName = "biblio_session"
	sessionCookieTTL  = 12 * time.Hour
)

// AuthHandler exposes local registration, login, identity, and logout endpoints.
type AuthHandler struct {
	authService  *auth.Service
	logger       *slog.Logger
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, env string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		logger:       logger,
		secureCookie: !strings.EqualFold(env, "development"),
	}
}

type credentialsPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := h.authService.Register(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, auth.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("register failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to register user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registered",
		"user":    user,
	})
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login. Unknown email and wrong password answer
// with the same status and body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	token, err := h.authService.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Me handles GET /auth/me. The route runs behind the auth middleware, which
// resolves the caller from session or bearer token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout handles GET /auth/logout. It destroys the server-side session if one
// exists; bearer-only clients simply discard their token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.DeleteSession(r.Context(), cookie.Value); err != nil {
			h.logger.Error("logout: session delete failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	renderLoggedOut(w)
}

// Success handles GET /auth/success, the post-OAuth landing carrying the
// issued token. Name resolution is best effort; any failure falls back.
func (h *AuthHandler) Success(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	name := "User"

	if token != "" {
		if user, err := h.authService.ValidateBearer(r.Context(), token); err == nil && user != nil {
			if user.DisplayName != "" {
				name = user.DisplayName
			} else if user.Email != "" {
				name = user.Email
			}
		}
	}

	renderLoginSuccess(w, name, token)
}

// Failure handles GET /auth/failure.
func (h *AuthHandler) Failure(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusUnauthorized, "Authentication failed")
}
