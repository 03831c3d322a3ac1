package models

// OutcomeStatus is the per-document result of a batch conversion.
type OutcomeStatus string

const (
	OutcomeConverted OutcomeStatus = "converted"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeFailed    OutcomeStatus = "failed"
)

// ConversionOutcome records what happened to one source document.
type ConversionOutcome struct {
	DocumentID   string        `json:"document_id"`
	Name         string        `json:"name"`
	Status       OutcomeStatus `json:"status"`
	OutputName   string        `json:"output_name,omitempty"`
	OutputID     string        `json:"output_id,omitempty"`
	ArchiveEntry string        `json:"archive_entry,omitempty"`
	Reason       string        `json:"reason,omitempty"` // why a document was skipped
	Error        string        `json:"error,omitempty"`
	ErrorKind    string        `json:"error_kind,omitempty"`
}

// ConversionSummary contains aggregate counts for a batch.
type ConversionSummary struct {
	Converted int `json:"converted"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// ConversionResult is the outcome of one batch run.
type ConversionResult struct {
	JobID    string              `json:"job_id,omitempty"`
	FolderID string              `json:"folder_id"`
	Summary  ConversionSummary   `json:"summary"`
	Results  []ConversionOutcome `json:"results"`
}

// Add appends an outcome and updates the summary.
func (r *ConversionResult) Add(o ConversionOutcome) {
	r.Results = append(r.Results, o)
	r.Summary.Total++
	switch o.Status {
	case OutcomeConverted:
		r.Summary.Converted++
	case OutcomeSkipped:
		r.Summary.Skipped++
	case OutcomeFailed:
		r.Summary.Failed++
	}
}
