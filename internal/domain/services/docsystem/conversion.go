package docsystem

import (
	"context"

	"docbridge/internal/domain/models"
)

// ConversionService runs the list/classify/convert/export pipeline for one user.
type ConversionService interface {
	// ListDocuments returns every candidate with its classification verdict.
	ListDocuments(ctx context.Context, store DocumentStore) ([]models.ClassifiedDocument, error)

	// Convert runs the batch sequentially and returns per-document outcomes plus the archive bytes.
	// An error is returned only when batch setup (output folder, listing) fails.
	Convert(ctx context.Context, store DocumentStore, req *ConvertRequest) (*models.ConversionResult, []byte, error)
}

// ConvertRequest holds the optional knobs of POST /api/convert.
type ConvertRequest struct {
	FolderName   string   `json:"folder_name,omitempty"`
	ExportFormat string   `json:"export_format,omitempty"` // "pdf" or "docx"
	DocumentIDs  []string `json:"document_ids,omitempty"`  // empty = every candidate
}
