package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"

	"docbridge/internal/domain"
	"docbridge/internal/domain/models"
)

// MIME types the store understands.
const (
	MimeGoogleDoc    = "application/vnd.google-apps.document"
	MimeGoogleFolder = "application/vnd.google-apps.folder"
)

// candidateFileTypes are uploaded file types listed alongside native documents.
var candidateFileTypes = []string{"text/markdown", "text/x-markdown", "text/plain", "text/html"}

var errListCapReached = errors.New("listing cap reached")

// Store implements DocumentStore on top of the Drive v3 and Docs v1 APIs.
// One Store acts for exactly one user.
type Store struct {
	drive  *drive.Service
	docs   *docs.Service
	cfg    *RepositoryConfig
	logger *slog.Logger
}

// NewStore wraps already-authenticated Drive and Docs clients.
func NewStore(driveSvc *drive.Service, docsSvc *docs.Service, cfg *RepositoryConfig) *Store {
	if cfg == nil {
		cfg = &RepositoryConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{drive: driveSvc, docs: docsSvc, cfg: cfg, logger: logger}
}

// ListCandidates lists non-trashed native documents and markdown-ish uploads, in
// the order Drive returns them.
func (s *Store) ListCandidates(ctx context.Context) ([]models.RemoteDocument, error) {
	clauses := []string{fmt.Sprintf("mimeType = '%s'", MimeGoogleDoc)}
	for _, mt := range candidateFileTypes {
		clauses = append(clauses, fmt.Sprintf("mimeType = '%s'", mt))
	}
	q := fmt.Sprintf("trashed = false and (%s)", strings.Join(clauses, " or "))

	var out []models.RemoteDocument
	call := s.drive.Files.List().
		Q(q).
		PageSize(100).
		Fields("nextPageToken, files(id, name, mimeType, parents, modifiedTime)")

	err := call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			out = append(out, toRemoteDocument(f))
			if s.cfg.MaxListed > 0 && len(out) >= s.cfg.MaxListed {
				return errListCapReached
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errListCapReached) {
		return nil, wrapRemote("list", err)
	}

	s.logger.Debug("listed candidates", "count", len(out))
	return out, nil
}

// FetchDocumentText fetches a native document and flattens its body.
func (s *Store) FetchDocumentText(ctx context.Context, documentID string) (string, error) {
	doc, err := s.docs.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return "", wrapRemote("fetch", err)
	}
	return ExtractText(doc), nil
}

// DownloadFile returns the raw content of an uploaded file.
func (s *Store) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.drive.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, wrapRemote("download", err)
	}
	return s.readBody(resp, "download")
}

// EnsureFolder finds a folder by exact name, creating it when none exists.
func (s *Store) EnsureFolder(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("mimeType = '%s' and name = '%s' and trashed = false", MimeGoogleFolder, escapeQuery(name))
	list, err := s.drive.Files.List().Q(q).PageSize(1).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", wrapRemote("find_folder", err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder, err := s.drive.Files.Create(&drive.File{
		Name:     name,
		MimeType: MimeGoogleFolder,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", wrapRemote("create_folder", err)
	}

	s.logger.Info("output folder created", "folder_id", folder.Id, "name", name)
	return folder.Id, nil
}

// CreateDocument creates an empty native document inside folderID.
func (s *Store) CreateDocument(ctx context.Context, title, folderID string) (string, error) {
	file := &drive.File{Name: title, MimeType: MimeGoogleDoc}
	if folderID != "" {
		file.Parents = []string{folderID}
	}

	created, err := s.drive.Files.Create(file).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", wrapRemote("create", err)
	}
	return created.Id, nil
}

// ApplyEdits submits ops as one ordered batch update.
func (s *Store) ApplyEdits(ctx context.Context, documentID string, ops []models.EditOperation) error {
	requests := BuildRequests(ops)
	if len(requests) == 0 {
		return nil
	}

	_, err := s.docs.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return wrapRemote("batch_update", err)
	}
	return nil
}

// Export renders a native document as mimeType.
func (s *Store) Export(ctx context.Context, documentID, mimeType string) ([]byte, error) {
	resp, err := s.drive.Files.Export(documentID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExport, wrapRemote("export", err))
	}
	data, err := s.readBody(resp, "export")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExport, err)
	}
	return data, nil
}

func (s *Store) readBody(resp *http.Response, op string) ([]byte, error) {
	defer resp.Body.Close()

	var r io.Reader = resp.Body
	if s.cfg.MaxDownloadBytes > 0 {
		r = io.LimitReader(resp.Body, s.cfg.MaxDownloadBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, domain.NewRemoteError(op, err)
	}
	if s.cfg.MaxDownloadBytes > 0 && int64(len(data)) > s.cfg.MaxDownloadBytes {
		return nil, domain.NewRemoteError(op, fmt.Errorf("response exceeds %d bytes", s.cfg.MaxDownloadBytes))
	}
	return data, nil
}

func toRemoteDocument(f *drive.File) models.RemoteDocument {
	doc := models.RemoteDocument{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Parents:  f.Parents,
		Source:   models.SourceFile,
	}
	if f.MimeType == MimeGoogleDoc {
		doc.Source = models.SourceGoogleDoc
	}
	if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
		doc.ModifiedTime = t
	}
	return doc
}

// escapeQuery escapes a literal for use inside a single-quoted Drive query string.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
