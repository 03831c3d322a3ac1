package google

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	docsysSvc "docbridge/internal/domain/services/docsystem"
)

// RepositoryConfig holds configuration shared by every per-user store.
type RepositoryConfig struct {
	Logger *slog.Logger
	// ClientOptions are appended to every service constructor (endpoint overrides, user agent).
	ClientOptions []option.ClientOption
	// MaxListed caps how many candidates one listing returns; 0 means no cap.
	MaxListed int
	// MaxDownloadBytes caps downloads and exports; 0 means no cap.
	MaxDownloadBytes int64
}

type storeFactory struct {
	cfg *RepositoryConfig
}

// NewStoreFactory returns a factory that builds Drive/Docs backed stores from a user's token source.
func NewStoreFactory(cfg *RepositoryConfig) docsysSvc.StoreFactory {
	return &storeFactory{cfg: cfg}
}

// NewStore creates the Drive and Docs clients for one user.
func (f *storeFactory) NewStore(ctx context.Context, ts oauth2.TokenSource) (docsysSvc.DocumentStore, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, f.cfg.ClientOptions...)

	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	docsSvc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create docs client: %w", err)
	}

	return NewStore(driveSvc, docsSvc, f.cfg), nil
}
