package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"biblio/internal/auth"
)

type googleStub struct {
	authURL  string
	exchange func(ctx context.Context, code string) (*auth.Profile, error)
}

func (g *googleStub) AuthURL() string {
	return g.authURL
}

func (g *googleStub) Exchange(ctx context.Context, code string) (*auth.Profile, error) {
	if g.exchange != nil {
		return g.exchange(ctx, code)
	}
	return nil, errors.New("not configured")
}

func TestOAuthHandlerNotConfigured(t *testing.T) {
	handler := NewOAuthHandler(nil, newTestAuthService(&authRepoStub{}), "development", newTestLogger())

	for _, path := range []string{"/auth/google", "/auth/google/callback?code=abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		if strings.Contains(path, "callback") {
			handler.CallbackGoogle(rec, req)
		} else {
			handler.InitiateGoogle(rec, req)
		}

		if rec.Code != http.StatusNotImplemented {
			t.Fatalf("expected status 501 for %s, got %d", path, rec.Code)
		}
	}
}

func TestOAuthHandlerInitiateRedirects(t *testing.T) {
	google := &googleStub{authURL: "https://accounts.google.com/o/oauth2/auth?client_id=abc"}
	handler := NewOAuthHandler(google, newTestAuthService(&authRepoStub{}), "development", newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()

	handler.InitiateGoogle(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != google.authURL {
		t.Fatalf("expected redirect to consent screen, got %q", got)
	}
}

func TestOAuthHandlerCallbackProviderError(t *testing.T) {
	handler := NewOAuthHandler(&googleStub{}, newTestAuthService(&authRepoStub{}), "development", newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()

	handler.CallbackGoogle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestOAuthHandlerCallbackMissingCode(t *testing.T) {
	handler := NewOAuthHandler(&googleStub{}, newTestAuthService(&authRepoStub{}), "development", newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil)
	rec := httptest.NewRecorder()

	handler.CallbackGoogle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestOAuthHandlerCallbackExchangeFailure(t *testing.T) {
	google := &googleStub{
		exchange: func(ctx context.Context, code string) (*auth.Profile, error) {
			return nil, &auth.ExchangeError{Kind: auth.ProviderRejected, Detail: `{"error":"invalid_grant"}`}
		},
	}
	handler := NewOAuthHandler(google, newTestAuthService(&authRepoStub{}), "development", newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=bad", nil)
	rec := httptest.NewRecorder()

	handler.CallbackGoogle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "invalid_grant") {
		t.Fatal("provider error detail must not reach the client")
	}
}

func TestOAuthHandlerCallbackSuccess(t *testing.T) {
	google := &googleStub{
		exchange: func(ctx context.Context, code string) (*auth.Profile, error) {
			if code != "good-code" {
				return nil, &auth.ExchangeError{Kind: auth.ProviderRejected}
			}
			return &auth.Profile{ProviderID: "sub-123", DisplayName: "Pat", Emails: []string{"pat@example.com"}}, nil
		},
	}
	repo := auth.NewInMemoryRepository()
	service := newTestAuthService(repo)
	handler := NewOAuthHandler(google, service, "development", newTestLogger())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=good-code", nil)
	rec := httptest.NewRecorder()

	handler.CallbackGoogle(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}

	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/auth/success?token=") {
		t.Fatalf("expected redirect to success page, got %q", location)
	}

	parsed, err := url.Parse(location)
	if err != nil {
		t.Fatalf("parse redirect location: %v", err)
	}
	token := parsed.Query().Get("token")
	user, err := service.ValidateBearer(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateBearer returned error: %v", err)
	}
	if user == nil || user.DisplayName != "Pat" {
		t.Fatalf("expected redirect token to name the resolved user, got %+v", user)
	}

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("expected a session cookie to be set")
	}
	if !sessionCookie.HttpOnly {
		t.Fatal("expected session cookie to be http-only")
	}

	sessionUser, err := service.ValidateSession(context.Background(), sessionCookie.Value)
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if sessionUser == nil || sessionUser.ID != user.ID {
		t.Fatalf("expected session to resolve the same user, got %+v", sessionUser)
	}
}

func TestOAuthHandlerCallbackSecondLoginReusesUser(t *testing.T) {
	google := &googleStub{
		exchange: func(ctx context.Context, code string) (*auth.Profile, error) {
			return &auth.Profile{ProviderID: "sub-123", DisplayName: "Pat"}, nil
		},
	}
	repo := auth.NewInMemoryRepository()
	service := newTestAuthService(repo)
	handler := NewOAuthHandler(google, service, "development", newTestLogger())

	login := func() string {
		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=code", nil)
		rec := httptest.NewRecorder()
		handler.CallbackGoogle(rec, req)
		if rec.Code != http.StatusFound {
			t.Fatalf("expected status 302, got %d", rec.Code)
		}
		parsed, err := url.Parse(rec.Header().Get("Location"))
		if err != nil {
			t.Fatalf("parse redirect location: %v", err)
		}
		return parsed.Query().Get("token")
	}

	first, err := service.ValidateBearer(context.Background(), login())
	if err != nil || first == nil {
		t.Fatalf("expected first login user, got %+v, %v", first, err)
	}
	second, err := service.ValidateBearer(context.Background(), login())
	if err != nil || second == nil {
		t.Fatalf("expected second login user, got %+v, %v", second, err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected repeat logins to resolve one account, got %s and %s", first.ID, second.ID)
	}
}
