package handler

import (
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"docbridge/internal/auth"
	docsysSvc "docbridge/internal/domain/services/docsystem"
	"docbridge/internal/httputil"
)

// StoreProvider builds a per-request document store acting for the signed-in user.
type StoreProvider struct {
	oauth    *oauth2.Config
	sessions *auth.SessionStore
	factory  docsysSvc.StoreFactory
	logger   *slog.Logger
}

// NewStoreProvider creates a store provider
func NewStoreProvider(oauth *oauth2.Config, sessions *auth.SessionStore, factory docsysSvc.StoreFactory, logger *slog.Logger) *StoreProvider {
	return &StoreProvider{
		oauth:    oauth,
		sessions: sessions,
		factory:  factory,
		logger:   logger,
	}
}

// StoreFor returns a store for the session authenticated on r.
func (p *StoreProvider) StoreFor(r *http.Request) (docsysSvc.DocumentStore, error) {
	sess, err := p.sessions.Get(httputil.GetSessionID(r))
	if err != nil {
		return nil, err
	}
	ts := auth.TokenSource(r.Context(), p.oauth, p.sessions, sess, p.logger)
	return p.factory.NewStore(r.Context(), ts)
}
