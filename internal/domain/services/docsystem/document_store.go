package docsystem

import (
	"context"

	"golang.org/x/oauth2"

	"docbridge/internal/domain/models"
)

// DocumentStore is the remote document store the conversion pipeline talks to.
// Every method is a single remote call (or a paged sequence of them); nothing is retried.
type DocumentStore interface {
	// ListCandidates returns native documents and markdown-ish files, in listing order.
	ListCandidates(ctx context.Context) ([]models.RemoteDocument, error)

	// FetchDocumentText fetches a native document and flattens its body to plain text.
	FetchDocumentText(ctx context.Context, documentID string) (string, error)

	// DownloadFile returns the raw bytes of an uploaded file.
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)

	// EnsureFolder returns the id of the folder with the given name, creating it when absent.
	EnsureFolder(ctx context.Context, name string) (string, error)

	// CreateDocument creates an empty native document inside folderID and returns its id.
	CreateDocument(ctx context.Context, title, folderID string) (string, error)

	// ApplyEdits submits the operations, in order, as one batch update.
	ApplyEdits(ctx context.Context, documentID string, ops []models.EditOperation) error

	// Export renders a native document to mimeType and returns the bytes.
	Export(ctx context.Context, documentID, mimeType string) ([]byte, error)
}

// StoreFactory builds a DocumentStore acting on behalf of one user's OAuth token source.
type StoreFactory interface {
	NewStore(ctx context.Context, ts oauth2.TokenSource) (DocumentStore, error)
}
