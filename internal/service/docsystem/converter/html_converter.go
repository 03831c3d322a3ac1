package converter

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"docbridge/internal/domain"
	docsysSvc "docbridge/internal/domain/services/docsystem"
	"docbridge/internal/service/docsystem/converter/sanitizer"
)

// htmlConverter turns uploaded HTML files back into markdown so they go
// through the same classify and render path as markdown sources.
type htmlConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

// NewHTMLConverter creates a new HTML to markdown converter.
// Input is sanitized before conversion.
func NewHTMLConverter() docsysSvc.ContentConverter {
	return &htmlConverter{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: md.NewConverter("", true, &md.Options{
			HeadingStyle:     "atx",
			BulletListMarker: "-",
			CodeBlockStyle:   "fenced",
		}),
	}
}

// Convert sanitizes the document, then renders it as markdown.
func (c *htmlConverter) Convert(ctx context.Context, input []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean, err := c.sanitizer.Sanitize(string(input))
	if err != nil {
		return "", fmt.Errorf("%w: sanitize html: %v", domain.ErrContentExtraction, err)
	}

	markdown, err := c.converter.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("%w: html to markdown: %v", domain.ErrContentExtraction, err)
	}

	return markdown, nil
}

// SupportedExtensions returns HTML file extensions.
func (c *htmlConverter) SupportedExtensions() []string {
	return []string{".html", ".htm"}
}

// Name returns the converter name for logging.
func (c *htmlConverter) Name() string {
	return "html"
}
