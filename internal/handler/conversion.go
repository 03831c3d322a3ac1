package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"docbridge/internal/domain/models"
	docsysSvc "docbridge/internal/domain/services/docsystem"
	"docbridge/internal/httputil"
	"docbridge/internal/service/archive"
)

const archiveFilename = "formatted-documents.zip"

// ConversionHandler handles listing, batch conversion and archive download
type ConversionHandler struct {
	service  docsysSvc.ConversionService
	stores   *StoreProvider
	archives *archive.Store
	baseURL  string
	logger   *slog.Logger
}

// NewConversionHandler creates a new conversion handler
func NewConversionHandler(
	service docsysSvc.ConversionService,
	stores *StoreProvider,
	archives *archive.Store,
	baseURL string,
	logger *slog.Logger,
) *ConversionHandler {
	return &ConversionHandler{
		service:  service,
		stores:   stores,
		archives: archives,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// DocumentListResponse is returned by GET /api/docs
type DocumentListResponse struct {
	Documents []models.ClassifiedDocument `json:"documents"`
	Count     int                         `json:"count"`
}

// ConvertResponse is returned by POST /api/convert
type ConvertResponse struct {
	JobID       string                     `json:"job_id"`
	FolderID    string                     `json:"folder_id"`
	Results     []models.ConversionOutcome `json:"results"`
	Summary     models.ConversionSummary   `json:"summary"`
	DownloadURL string                     `json:"download_url"`
}

// ListDocuments lists candidate documents with their classification
// GET /api/docs
func (h *ConversionHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	store, err := h.stores.StoreFor(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	docs, err := h.service.ListDocuments(r.Context(), store)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Count: len(docs)})
}

// Convert runs the batch for the signed-in user
// POST /api/convert
// Returns 200 with per-document outcomes; 500 only when setup fails
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.ConvertRequest
	if err := httputil.ParseOptionalJSON(w, r, &req); err != nil {
		handleError(w, h.logger, err)
		return
	}

	store, err := h.stores.StoreFor(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	result, data, err := h.service.Convert(r.Context(), store, &req)
	if err != nil {
		handleSetupError(w, h.logger, err)
		return
	}

	sessionID := httputil.GetSessionID(r)
	h.archives.Put(&archive.Archive{
		JobID:     result.JobID,
		SessionID: sessionID,
		Filename:  archiveFilename,
		Data:      data,
		Entries:   result.Summary.Converted,
	})

	httputil.RespondJSON(w, http.StatusOK, ConvertResponse{
		JobID:       result.JobID,
		FolderID:    result.FolderID,
		Results:     result.Results,
		Summary:     result.Summary,
		DownloadURL: fmt.Sprintf("%s/api/download-zip?job=%s", h.baseURL, url.QueryEscape(result.JobID)),
	})
}

// DownloadZip streams a finished archive
// GET /api/download-zip?job=<id>
// Without job, the session's most recent archive is returned
func (h *ConversionHandler) DownloadZip(w http.ResponseWriter, r *http.Request) {
	sessionID := httputil.GetSessionID(r)

	var (
		a   *archive.Archive
		err error
	)
	if jobID := r.URL.Query().Get("job"); jobID != "" {
		a, err = h.archives.Get(sessionID, jobID)
	} else {
		a, err = h.archives.Latest(sessionID)
	}
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Debug("archive downloaded", "job_id", a.JobID, "bytes", len(a.Data))
	httputil.RespondAttachment(w, "application/zip", a.Filename, a.Data)
}
