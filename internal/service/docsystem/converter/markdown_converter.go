package converter

import (
	"bytes"
	"context"
	"strings"

	docsysSvc "docbridge/internal/domain/services/docsystem"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// markdownConverter reads markdown files, dropping a BOM and CRLF endings.
type markdownConverter struct{}

// NewMarkdownConverter creates a new markdown converter.
func NewMarkdownConverter() docsysSvc.ContentConverter {
	return &markdownConverter{}
}

// Convert returns the input without a leading BOM and with LF line endings.
func (c *markdownConverter) Convert(ctx context.Context, input []byte) (string, error) {
	input = bytes.TrimPrefix(input, utf8BOM)
	return strings.ReplaceAll(string(input), "\r\n", "\n"), nil
}

// SupportedExtensions returns markdown file extensions.
func (c *markdownConverter) SupportedExtensions() []string {
	return []string{".md", ".markdown", ".mdown"}
}

// Name returns the converter name for logging.
func (c *markdownConverter) Name() string {
	return "markdown"
}
