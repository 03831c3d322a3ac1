package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	docsAPI "google.golang.org/api/docs/v1"
	driveAPI "google.golang.org/api/drive/v3"

	"docbridge/internal/domain"
)

// OAuthConfig holds the configuration needed to set up the Google provider.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewGoogleProvider returns an oauth2.Config for Google sign-in with Drive and Docs access.
func NewGoogleProvider(cfg OAuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"openid",
			"email",
			driveAPI.DriveScope,
			docsAPI.DocumentsScope,
		},
		Endpoint: google.Endpoint,
	}
}

// AuthCodeURL returns the consent URL for state, requesting a refresh token.
func AuthCodeURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Identity is who completed the OAuth flow.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Exchange trades an authorization code for a token. When verifier is non-nil and
// the response carries an id_token, the token's identity is verified and returned.
func Exchange(ctx context.Context, cfg *oauth2.Config, verifier IDTokenVerifier, code string) (*oauth2.Token, *Identity, error) {
	if code == "" {
		return nil, nil, fmt.Errorf("%w: missing authorization code", domain.ErrValidation)
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrAuthenticationInvalid, retrieveErr.ErrorCode)
		}
		return nil, nil, domain.NewRemoteError("oauth_exchange", err)
	}

	identity := &Identity{}
	if verifier == nil {
		return tok, identity, nil
	}

	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return tok, identity, nil
	}

	claims, err := verifier.VerifyIDToken(raw)
	if err != nil {
		return nil, nil, err
	}
	identity.Subject = claims.Subject
	identity.Email = claims.Email
	identity.Name = claims.Name
	return tok, identity, nil
}

// persistingSource writes refreshed tokens back to the session store.
type persistingSource struct {
	base      oauth2.TokenSource
	store     *SessionStore
	sessionID string
	last      string
	logger    *slog.Logger
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: token refresh failed: %v", domain.ErrAuthenticationInvalid, err)
	}
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		p.store.UpdateToken(p.sessionID, tok)
		p.logger.Debug("oauth token refreshed", "session_id", p.sessionID, "expiry", tok.Expiry)
	}
	return tok, nil
}

// TokenSource returns a token source for sess that refreshes through cfg and
// persists each refreshed token on the session.
func TokenSource(ctx context.Context, cfg *oauth2.Config, store *SessionStore, sess *Session, logger *slog.Logger) oauth2.TokenSource {
	if logger == nil {
		logger = slog.Default()
	}
	src := &persistingSource{
		base:      cfg.TokenSource(ctx, sess.Token),
		store:     store,
		sessionID: sess.ID,
		last:      sess.Token.AccessToken,
		logger:    logger,
	}
	return oauth2.ReuseTokenSource(sess.Token, src)
}
