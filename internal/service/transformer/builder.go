package transformer

import (
	"strings"
	"unicode/utf16"

	"docbridge/internal/domain/models"
)

// Run is a styled span inside one paragraph, in offsets relative to the paragraph start.
type Run struct {
	Start int64
	End   int64
	Style models.TextStyle
}

// Builder owns the insertion cursor and the ordered operation list for one document.
// Ranges are computed only at emission time, from the cursor before it advances.
// A Builder is not safe for concurrent use.
type Builder struct {
	cursor int64
	ops    []models.EditOperation
}

// NewBuilder returns a builder positioned at index 1, the first writable index of a document body.
func NewBuilder() *Builder {
	return &Builder{cursor: 1}
}

// Cursor returns the index where the next insertion will happen.
func (b *Builder) Cursor() int64 {
	return b.cursor
}

// Paragraph appends text as its own paragraph, followed by one combined style update
// for style and one SetTextStyle per run. Whitespace-only text emits nothing.
func (b *Builder) Paragraph(text string, style BlockStyle, runs []Run) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	start := b.cursor
	n := utf16Len(text)
	rng := models.Range{Start: start, End: start + n}

	b.ops = append(b.ops, models.EditOperation{
		Kind:  models.EditInsertText,
		Index: start,
		Text:  text + "\n",
		Range: models.Range{Start: start, End: start + n + 1},
	})

	if op, ok := styleOperation(rng, style); ok {
		b.ops = append(b.ops, op)
	}

	for _, r := range runs {
		if r.Start < 0 {
			r.Start = 0
		}
		if r.End > n {
			r.End = n
		}
		if r.End <= r.Start || r.Style.IsZero() {
			continue
		}
		ts := r.Style
		b.ops = append(b.ops, models.EditOperation{
			Kind:      models.EditSetTextStyle,
			Range:     models.Range{Start: start + r.Start, End: start + r.End},
			TextStyle: &ts,
		})
	}

	b.cursor += n + 1
	return true
}

// Operations returns a copy of the emitted operations in emission order.
func (b *Builder) Operations() []models.EditOperation {
	out := make([]models.EditOperation, len(b.ops))
	copy(out, b.ops)
	return out
}

// styleOperation folds a block mapping into a single style update.
// Paragraph-level mappings carry their text attributes along; text-only mappings
// become a plain SetTextStyle.
func styleOperation(rng models.Range, style BlockStyle) (models.EditOperation, bool) {
	var text *models.TextStyle
	if style.Text != nil && !style.Text.IsZero() {
		ts := *style.Text
		text = &ts
	}

	if style.Paragraph != nil && !style.Paragraph.IsZero() {
		ps := *style.Paragraph
		if ps.BorderLeft != nil {
			border := *ps.BorderLeft
			ps.BorderLeft = &border
		}
		return models.EditOperation{
			Kind:           models.EditSetParagraphStyle,
			Range:          rng,
			ParagraphStyle: &ps,
			TextStyle:      text,
		}, true
	}

	if text != nil {
		return models.EditOperation{
			Kind:      models.EditSetTextStyle,
			Range:     rng,
			TextStyle: text,
		}, true
	}

	return models.EditOperation{}, false
}

// utf16Len measures s the way the remote document model indexes text.
func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		n += int64(utf16.RuneLen(r))
	}
	return n
}
