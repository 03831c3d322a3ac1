package google

import (
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// ExtractText flattens a document body to plain text. Tables are walked rows
// before cells before nested content, and top-level blocks are joined with a
// newline. A nil or empty document yields "".
func ExtractText(doc *docs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}

	var blocks []string
	for _, el := range doc.Body.Content {
		if text, ok := elementText(el); ok {
			blocks = append(blocks, text)
		}
	}
	return strings.Join(blocks, "\n")
}

func elementText(el *docs.StructuralElement) (string, bool) {
	switch {
	case el == nil:
		return "", false
	case el.Paragraph != nil:
		return paragraphText(el.Paragraph), true
	case el.Table != nil:
		return tableText(el.Table), true
	case el.TableOfContents != nil:
		return contentText(el.TableOfContents.Content), true
	default:
		// section breaks carry no text
		return "", false
	}
}

func paragraphText(p *docs.Paragraph) string {
	var b strings.Builder
	for _, pe := range p.Elements {
		if pe != nil && pe.TextRun != nil {
			b.WriteString(pe.TextRun.Content)
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func tableText(t *docs.Table) string {
	var rows []string
	for _, row := range t.TableRows {
		if row == nil {
			continue
		}
		var cells []string
		for _, cell := range row.TableCells {
			if cell == nil {
				continue
			}
			cells = append(cells, contentText(cell.Content))
		}
		rows = append(rows, strings.Join(cells, "\n"))
	}
	return strings.Join(rows, "\n")
}

func contentText(content []*docs.StructuralElement) string {
	var parts []string
	for _, el := range content {
		if text, ok := elementText(el); ok {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}
