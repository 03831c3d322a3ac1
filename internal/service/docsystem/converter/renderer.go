package converter

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	docsysSvc "docbridge/internal/domain/services/docsystem"
	"docbridge/internal/service/docsystem/converter/sanitizer"
)

// markdownRenderer renders markdown to sanitized HTML using goldmark with the
// GFM extensions (tables, strikethrough, autolinks, task lists).
// Raw HTML embedded in the markdown is dropped by goldmark's safe default and
// the output is passed through the sanitizer before anyone walks it.
type markdownRenderer struct {
	engine    goldmark.Markdown
	sanitizer *sanitizer.HTMLSanitizer
}

// NewMarkdownRenderer creates the markdown to HTML renderer.
// The engine is stateless, so one instance serves every document.
func NewMarkdownRenderer() docsysSvc.MarkdownRenderer {
	return &markdownRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
				extension.TaskList,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		sanitizer: sanitizer.NewHTMLSanitizer(),
	}
}

// Render converts markdown to sanitized HTML.
func (r *markdownRenderer) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return r.sanitizer.SanitizeBytes(buf.Bytes()), nil
}
