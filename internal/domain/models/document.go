package models

import (
	"time"
)

// DocumentSource tells the pipeline how to read a candidate's content.
type DocumentSource string

const (
	// SourceGoogleDoc is a native Google Docs document read through the Docs API.
	SourceGoogleDoc DocumentSource = "google_doc"
	// SourceFile is an uploaded file (Markdown, plain text, HTML) downloaded from Drive.
	SourceFile DocumentSource = "file"
)

// RemoteDocument is the metadata the remote store returns for a candidate document.
type RemoteDocument struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	MimeType     string         `json:"mime_type"`
	Source       DocumentSource `json:"source"`
	Parents      []string       `json:"parents,omitempty"`
	ModifiedTime time.Time      `json:"modified_time"`
}

// InFolder reports whether the document lives directly in folderID.
func (d *RemoteDocument) InFolder(folderID string) bool {
	for _, p := range d.Parents {
		if p == folderID {
			return true
		}
	}
	return false
}

// ClassifiedDocument pairs a candidate with the classifier's verdict.
type ClassifiedDocument struct {
	RemoteDocument
	Markdown bool     `json:"markdown"`
	Signals  []string `json:"signals"`
	Words    int      `json:"words"`
	Error    string   `json:"error,omitempty"`
}
