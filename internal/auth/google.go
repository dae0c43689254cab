package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// exchangeTimeout bounds the code-for-token round trip with Google so a hung
// provider cannot hang login flows indefinitely.
const exchangeTimeout = 10 * time.Second

// ExchangeErrorKind classifies why an authorization-code exchange failed.
type ExchangeErrorKind string

const (
	// ProviderRejected means Google answered with an error body.
	ProviderRejected ExchangeErrorKind = "provider_rejected"
	// NetworkFailure means the round trip itself failed.
	NetworkFailure ExchangeErrorKind = "network_failure"
	// MalformedResponse means the provider response could not be parsed or verified.
	MalformedResponse ExchangeErrorKind = "malformed_response"
)

// ExchangeError describes a failed exchange. Detail carries the raw provider
// error body for server-side diagnostics and must never be sent to clients.
type ExchangeError struct {
	Kind   ExchangeErrorKind
	Detail string
	cause  error
}

func (e *ExchangeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("oauth exchange: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("oauth exchange: %s", e.Kind)
}

func (e *ExchangeError) Unwrap() error { return e.cause }

// Profile is the identity returned by a successful code exchange.
type Profile struct {
	ProviderID  string
	DisplayName string
	Emails      []string
}

// googleClaims are the ID-token claims biblio consumes.
type googleClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleAuthenticator performs the Google OAuth 2.0 / OIDC code exchange.
type GoogleAuthenticator struct {
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleAuthenticator creates a new GoogleAuthenticator.
func NewGoogleAuthenticator(ctx context.Context, clientID, clientSecret, callbackURL string) (*GoogleAuthenticator, error) {
	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return &GoogleAuthenticator{
		config:   config,
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// AuthURL returns the Google consent screen URL.
func (g *GoogleAuthenticator) AuthURL() string {
	return g.config.AuthCodeURL("", oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades an authorization code for the authenticated profile. The
// provider response is untrusted input: the ID token must verify against
// Google's published keys before any claim is read.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, classifyExchangeError(err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, &ExchangeError{Kind: MalformedResponse, Detail: "no id_token in token response"}
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, &ExchangeError{Kind: MalformedResponse, Detail: "id_token verification failed", cause: err}
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, &ExchangeError{Kind: MalformedResponse, Detail: "unparseable id_token claims", cause: err}
	}
	if claims.Sub == "" {
		return nil, &ExchangeError{Kind: MalformedResponse, Detail: "id_token missing sub claim"}
	}

	profile := &Profile{
		ProviderID:  claims.Sub,
		DisplayName: claims.Name,
	}
	if email := strings.TrimSpace(claims.Email); email != "" {
		profile.Emails = append(profile.Emails, email)
	}

	return profile, nil
}

// classifyExchangeError separates a provider error body from a transport
// failure. oauth2 errors never include the client secret, so wrapping them is safe.
func classifyExchangeError(err error) *ExchangeError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &ExchangeError{
			Kind:   ProviderRejected,
			Detail: string(retrieveErr.Body),
			cause:  err,
		}
	}
	return &ExchangeError{Kind: NetworkFailure, cause: err}
}
