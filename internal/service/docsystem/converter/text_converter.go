package converter

import (
	"context"
	"strings"

	docsysSvc "docbridge/internal/domain/services/docsystem"
)

// textConverter handles plain text files. Plain text is classified as-is, so
// only the line endings are normalized.
type textConverter struct{}

// NewTextConverter creates a new text converter.
func NewTextConverter() docsysSvc.ContentConverter {
	return &textConverter{}
}

// Convert returns the input with CRLF line endings folded to LF.
func (c *textConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return strings.ReplaceAll(string(input), "\r\n", "\n"), nil
}

// SupportedExtensions returns text file extensions.
func (c *textConverter) SupportedExtensions() []string {
	return []string{".txt", ".text"}
}

// Name returns the converter name for logging.
func (c *textConverter) Name() string {
	return "plaintext"
}
