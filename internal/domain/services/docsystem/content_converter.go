package docsystem

import "context"

// ContentConverter normalizes downloaded file content to markdown.
// Each converter handles a specific file type (md, txt, html)
// so that the classifier always sees markdown-or-plain text.
//
// Implementations should be stateless and thread-safe.
type ContentConverter interface {
	// Convert transforms input content to markdown.
	// Returns an error if conversion fails.
	Convert(ctx context.Context, input []byte) (markdown string, err error)

	// SupportedExtensions returns file extensions this converter handles.
	// Extensions should include the leading dot (e.g., [".html", ".htm"]).
	SupportedExtensions() []string

	// Name returns a human-readable converter name for logging/debugging.
	Name() string
}

// MarkdownRenderer renders markdown source to HTML.
type MarkdownRenderer interface {
	Render(markdown []byte) ([]byte, error)
}
