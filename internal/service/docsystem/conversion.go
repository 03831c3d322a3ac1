package docsystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"docbridge/internal/config"
	"docbridge/internal/domain"
	"docbridge/internal/domain/models"
	docsysSvc "docbridge/internal/domain/services/docsystem"
	"docbridge/internal/service/archive"
	"docbridge/internal/service/classifier"
	"docbridge/internal/service/docsystem/converter"
	"docbridge/internal/service/transformer"
)

// Export formats accepted by Convert.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

// ExportFormat is the MIME type and archive extension of one export format.
type ExportFormat struct {
	MimeType  string
	Extension string
}

var exportFormats = map[string]ExportFormat{
	FormatPDF:  {MimeType: "application/pdf", Extension: ".pdf"},
	FormatDOCX: {MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Extension: ".docx"},
}

// LookupExportFormat resolves a format name (case-insensitive).
func LookupExportFormat(name string) (ExportFormat, bool) {
	f, ok := exportFormats[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Skip reasons reported on outcomes.
const (
	ReasonAlreadyConverted = "already converted"
	ReasonInOutputFolder   = "in output folder"
	ReasonNotMarkdown      = "not markdown"
)

// ConversionConfig holds the defaults applied when a request leaves a knob empty.
type ConversionConfig struct {
	OutputFolderName string
	OutputSuffix     string
	ExportFormat     string
	// MaxArchiveEntries caps converted documents per batch; 0 means no cap.
	MaxArchiveEntries int
}

// conversionService implements the ConversionService interface
type conversionService struct {
	cfg         ConversionConfig
	registry    *converter.ConverterRegistry
	renderer    docsysSvc.MarkdownRenderer
	transformer *transformer.Transformer
	logger      *slog.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(
	cfg ConversionConfig,
	registry *converter.ConverterRegistry,
	renderer docsysSvc.MarkdownRenderer,
	tf *transformer.Transformer,
	logger *slog.Logger,
) docsysSvc.ConversionService {
	return &conversionService{
		cfg:         cfg,
		registry:    registry,
		renderer:    renderer,
		transformer: tf,
		logger:      logger,
	}
}

// ListDocuments classifies every candidate that is not itself a conversion output.
func (s *conversionService) ListDocuments(ctx context.Context, store docsysSvc.DocumentStore) ([]models.ClassifiedDocument, error) {
	candidates, err := store.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	out := make([]models.ClassifiedDocument, 0, len(candidates))
	for _, doc := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.isOutputName(doc.Name) {
			continue
		}

		item := models.ClassifiedDocument{RemoteDocument: doc, Signals: []string{}}
		text, err := s.readText(ctx, store, doc)
		if err != nil {
			if errors.Is(err, domain.ErrAuthenticationInvalid) {
				return nil, err
			}
			item.Error = err.Error()
			out = append(out, item)
			continue
		}

		verdict := classifier.Analyze(text)
		item.Markdown = verdict.Markdown
		item.Signals = verdict.Signals
		item.Words = classifier.CountWords(text)
		out = append(out, item)
	}

	return out, nil
}

// Convert runs the batch in listing order. Per-document failures become outcomes;
// only setup failures, rejected credentials and cancellation abort the batch.
func (s *conversionService) Convert(ctx context.Context, store docsysSvc.DocumentStore, req *docsysSvc.ConvertRequest) (*models.ConversionResult, []byte, error) {
	if req == nil {
		req = &docsysSvc.ConvertRequest{}
	}
	if err := s.validateConvertRequest(req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folderName := firstNonEmpty(req.FolderName, s.cfg.OutputFolderName)
	formatName := firstNonEmpty(req.ExportFormat, s.cfg.ExportFormat, FormatPDF)
	format, ok := LookupExportFormat(formatName)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unsupported export format %q", domain.ErrValidation, formatName)
	}

	folderID, err := store.EnsureFolder(ctx, folderName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare output folder: %w", err)
	}

	candidates, err := store.ListCandidates(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list documents: %w", err)
	}
	candidates = filterByID(candidates, req.DocumentIDs)

	result := &models.ConversionResult{
		JobID:    uuid.NewString(),
		FolderID: folderID,
		Results:  make([]models.ConversionOutcome, 0, len(candidates)),
	}
	zipper := archive.NewBuilder()

	for _, doc := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		outcome, err := s.convertOne(ctx, store, doc, folderID, format, zipper)
		if errors.Is(err, domain.ErrAuthenticationInvalid) {
			return nil, nil, err
		}
		s.logOutcome(result.JobID, outcome)
		result.Add(outcome)
	}

	data, err := zipper.Finalize()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	s.logger.Info("conversion batch complete",
		"job_id", result.JobID,
		"folder_id", folderID,
		"converted", result.Summary.Converted,
		"skipped", result.Summary.Skipped,
		"failed", result.Summary.Failed,
		"total", result.Summary.Total,
	)

	return result, data, nil
}

// validateConvertRequest validates the optional knobs of a batch request
func (s *conversionService) validateConvertRequest(req *docsysSvc.ConvertRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.FolderName,
			validation.Length(0, config.MaxFolderNameLength), // empty falls back to the configured folder
		),
		validation.Field(&req.ExportFormat,
			validation.In(FormatPDF, FormatDOCX),
		),
		validation.Field(&req.DocumentIDs,
			validation.Length(0, config.MaxListedDocuments),
			validation.Each(validation.Required),
		),
	)
}

// convertOne runs a single document through the pipeline. The returned error is
// the one recorded on a failed outcome.
func (s *conversionService) convertOne(
	ctx context.Context,
	store docsysSvc.DocumentStore,
	doc models.RemoteDocument,
	folderID string,
	format ExportFormat,
	zipper *archive.Builder,
) (models.ConversionOutcome, error) {
	outcome := models.ConversionOutcome{DocumentID: doc.ID, Name: doc.Name}

	switch {
	case s.isOutputName(doc.Name):
		return skipped(outcome, ReasonAlreadyConverted), nil
	case doc.InFolder(folderID):
		return skipped(outcome, ReasonInOutputFolder), nil
	}

	text, err := s.readText(ctx, store, doc)
	if err != nil {
		return failed(outcome, err), err
	}
	if !classifier.Classify(text) {
		return skipped(outcome, ReasonNotMarkdown), nil
	}

	meta, body := converter.SplitFrontmatter([]byte(text))
	if meta != nil {
		s.logger.Debug("frontmatter stripped", "doc_id", doc.ID, "keys", len(meta))
	}

	rendered, err := s.renderer.Render(body)
	if err != nil {
		return failed(outcome, err), err
	}
	root, err := html.Parse(bytes.NewReader(rendered))
	if err != nil {
		err = fmt.Errorf("failed to parse rendered html: %w", err)
		return failed(outcome, err), err
	}
	ops := s.transformer.Transform(root)

	if s.cfg.MaxArchiveEntries > 0 && zipper.Len() >= s.cfg.MaxArchiveEntries {
		err := fmt.Errorf("%w: archive entry limit (%d) reached", domain.ErrExport, s.cfg.MaxArchiveEntries)
		return failed(outcome, err), err
	}

	outcome.OutputName = s.outputName(doc)
	newID, err := store.CreateDocument(ctx, outcome.OutputName, folderID)
	if err != nil {
		return failed(outcome, err), err
	}
	outcome.OutputID = newID

	if err := store.ApplyEdits(ctx, newID, ops); err != nil {
		return failed(outcome, err), err
	}

	data, err := store.Export(ctx, newID, format.MimeType)
	if err != nil {
		return failed(outcome, err), err
	}

	entry, err := zipper.Add(outcome.OutputName+format.Extension, data)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrExport, err)
		return failed(outcome, err), err
	}
	outcome.ArchiveEntry = entry
	outcome.Status = models.OutcomeConverted
	return outcome, nil
}

// readText returns the plain text of a candidate. Content that cannot be
// extracted degrades to "" so the classifier rejects it; remote failures are returned.
func (s *conversionService) readText(ctx context.Context, store docsysSvc.DocumentStore, doc models.RemoteDocument) (string, error) {
	if doc.Source == models.SourceGoogleDoc {
		return store.FetchDocumentText(ctx, doc.ID)
	}

	raw, err := store.DownloadFile(ctx, doc.ID)
	if err != nil {
		return "", err
	}
	text, err := s.registry.ConvertFile(ctx, doc.Name, doc.MimeType, raw)
	if err != nil {
		s.logger.Warn("content extraction failed, treating as empty",
			"doc_id", doc.ID,
			"name", doc.Name,
			"error", err,
		)
		return "", nil
	}
	return text, nil
}

func (s *conversionService) isOutputName(name string) bool {
	if s.cfg.OutputSuffix == "" {
		return false
	}
	return strings.HasSuffix(name, s.cfg.OutputSuffix)
}

// outputName derives the converted document's title; uploaded files lose their extension.
func (s *conversionService) outputName(doc models.RemoteDocument) string {
	name := doc.Name
	if doc.Source == models.SourceFile {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if strings.TrimSpace(name) == "" {
		name = doc.ID
	}
	return name + s.cfg.OutputSuffix
}

func (s *conversionService) logOutcome(jobID string, o models.ConversionOutcome) {
	attrs := []any{
		"job_id", jobID,
		"doc_id", o.DocumentID,
		"name", o.Name,
		"status", o.Status,
	}
	switch o.Status {
	case models.OutcomeFailed:
		s.logger.Warn("document conversion failed", append(attrs, "error", o.Error, "error_kind", o.ErrorKind)...)
	case models.OutcomeSkipped:
		s.logger.Debug("document skipped", append(attrs, "reason", o.Reason)...)
	default:
		s.logger.Info("document converted", append(attrs, "output_name", o.OutputName, "output_id", o.OutputID)...)
	}
}

func skipped(o models.ConversionOutcome, reason string) models.ConversionOutcome {
	o.Status = models.OutcomeSkipped
	o.Reason = reason
	return o
}

func failed(o models.ConversionOutcome, err error) models.ConversionOutcome {
	o.Status = models.OutcomeFailed
	o.Error = err.Error()
	o.ErrorKind = domain.KindOf(err)
	return o
}

// filterByID keeps candidates whose id is in ids, preserving listing order. Empty ids keeps all.
func filterByID(docs []models.RemoteDocument, ids []string) []models.RemoteDocument {
	if len(ids) == 0 {
		return docs
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]models.RemoteDocument, 0, len(ids))
	for _, d := range docs {
		if _, ok := want[d.ID]; ok {
			out = append(out, d)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
