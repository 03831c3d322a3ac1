// Package transformer turns rendered HTML into the ordered edit operations that
// rebuild the same content, with styling, inside a remote rich-text document.
package transformer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"docbridge/internal/domain/models"
)

// Transformer walks parsed HTML and emits edit operations.
// It holds only the read-only stylesheet and is safe to share; every call to
// Transform uses its own Builder.
type Transformer struct {
	sheet *StyleSheet
}

// New creates a transformer using the embedded default stylesheet.
func New() (*Transformer, error) {
	sheet, err := DefaultStyleSheet()
	if err != nil {
		return nil, err
	}
	return NewWithStyleSheet(sheet), nil
}

// NewWithStyleSheet creates a transformer using sheet.
func NewWithStyleSheet(sheet *StyleSheet) *Transformer {
	return &Transformer{sheet: sheet}
}

// skipped subtrees never contribute text
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
}

// containers emit nothing themselves; their children are visited as blocks
var containers = map[atom.Atom]bool{
	atom.Html:    true,
	atom.Body:    true,
	atom.Div:     true,
	atom.Section: true,
	atom.Article: true,
	atom.Main:    true,
	atom.Header:  true,
	atom.Footer:  true,
	atom.Nav:     true,
	atom.Aside:   true,
}

// blocks separate their text from surrounding text when collected inline
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Pre: true, atom.Blockquote: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Ul: true, atom.Ol: true, atom.Table: true, atom.Tr: true,
	atom.Td: true, atom.Th: true, atom.Hr: true,
}

// Transform walks the body of root depth-first and returns the operations in
// emission order. Malformed or empty input yields an empty or partial sequence.
func (t *Transformer) Transform(root *html.Node) []models.EditOperation {
	b := NewBuilder()
	if root == nil {
		return b.Operations()
	}

	start := findBody(root)
	if start == nil {
		start = root
	}
	t.visit(b, start)

	return b.Operations()
}

// TransformHTML parses src and transforms the result.
func (t *Transformer) TransformHTML(src []byte) ([]models.EditOperation, error) {
	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return t.Transform(root), nil
}

func (t *Transformer) visit(b *Builder, n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		t.visitChildren(b, n)
	case html.ElementNode:
		t.visitElement(b, n)
	}
}

func (t *Transformer) visitChildren(b *Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		t.visit(b, c)
	}
}

func (t *Transformer) visitElement(b *Builder, n *html.Node) {
	switch {
	case skipped[n.DataAtom]:
		return
	case n.DataAtom == atom.Ul || n.DataAtom == atom.Ol:
		t.emitList(b, n, 0)
	case n.DataAtom == atom.Table:
		t.emitTable(b, n)
	case n.DataAtom == atom.Blockquote:
		t.emitQuote(b, n, 1)
	case containers[n.DataAtom]:
		t.visitChildren(b, n)
	default:
		t.emitBlock(b, n)
	}
}

// emitQuote emits the children of a blockquote as separate paragraphs in the
// quote style. Loose inline content between blocks forms its own paragraph.
// Lists and nested quotes are indented one level deeper; tables stay plain rows.
func (t *Transformer) emitQuote(b *Builder, quote *html.Node, depth int) {
	style := t.sheet.Quote(depth)

	var loose *inlineText
	flush := func() {
		if loose != nil && loose.hasContent() {
			b.Paragraph(loose.text(), style, loose.runs)
		}
		loose = nil
	}

	for c := quote.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if loose == nil {
				loose = newInlineText(false)
			}
			loose.write(c.Data)
		case c.Type != html.ElementNode || skipped[c.DataAtom]:
		case c.DataAtom == atom.Blockquote:
			flush()
			t.emitQuote(b, c, depth+1)
		case c.DataAtom == atom.Ul || c.DataAtom == atom.Ol:
			flush()
			t.emitList(b, c, depth)
		case c.DataAtom == atom.Table:
			flush()
			t.emitTable(b, c)
		case containers[c.DataAtom]:
			flush()
			t.emitQuote(b, c, depth)
		case blocks[c.DataAtom]:
			flush()
			txt := newInlineText(c.DataAtom == atom.Pre)
			t.collect(txt, c, false)
			if txt.hasContent() {
				b.Paragraph(txt.text(), t.sheet.Quoted(tagName(c), depth), txt.runs)
			}
		default:
			if loose == nil {
				loose = newInlineText(false)
			}
			t.collectElement(loose, c, false)
		}
	}
	flush()
}

// emitBlock emits one paragraph for n. Tags without a mapping get plain treatment.
func (t *Transformer) emitBlock(b *Builder, n *html.Node) {
	txt := newInlineText(n.DataAtom == atom.Pre)
	t.collect(txt, n, false)
	if !txt.hasContent() {
		return
	}
	b.Paragraph(txt.text(), t.sheet.Block(tagName(n)), txt.runs)
}

// emitList emits each direct <li> of a list container with its prefix, then the
// item's nested lists one level deeper.
func (t *Transformer) emitList(b *Builder, list *html.Node, level int) {
	ordered := list.DataAtom == atom.Ol
	ordinal := listStart(list) - 1

	for item := list.FirstChild; item != nil; item = item.NextSibling {
		if item.Type != html.ElementNode || item.DataAtom != atom.Li {
			continue
		}
		ordinal++

		txt := newInlineText(false)
		txt.literal(t.sheet.Prefix(ordered, ordinal))
		t.collect(txt, item, true)
		if txt.hasContent() {
			b.Paragraph(txt.text(), t.sheet.ListItem(level), txt.runs)
		}

		for _, nested := range nestedLists(item) {
			t.emitList(b, nested, level+1)
		}
	}
}

// emitTable emits one plain paragraph per row, cells joined by " | ".
func (t *Transformer) emitTable(b *Builder, table *html.Node) {
	for _, row := range findAll(table, atom.Tr) {
		var cells []string
		header, filled := false, false
		for c := row.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
				continue
			}
			if c.DataAtom == atom.Th {
				header = true
			}
			txt := newInlineText(false)
			t.collect(txt, c, false)
			cells = append(cells, txt.text())
			filled = filled || txt.hasContent()
		}
		if !filled {
			continue
		}

		style := t.sheet.Block("tr")
		if header {
			style = t.sheet.Block("th")
		}
		b.Paragraph(strings.Join(cells, " | "), style, nil)
	}
}

// collect appends the text under n to txt, recording inline style runs.
// With skipLists set, nested ul/ol subtrees are left for emitList.
func (t *Transformer) collect(txt *inlineText, n *html.Node, skipLists bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			txt.write(c.Data)
		case html.ElementNode:
			t.collectElement(txt, c, skipLists)
		}
	}
}

func (t *Transformer) collectElement(txt *inlineText, n *html.Node, skipLists bool) {
	if skipped[n.DataAtom] {
		return
	}
	if skipLists && (n.DataAtom == atom.Ul || n.DataAtom == atom.Ol) {
		return
	}
	if n.DataAtom == atom.Br {
		txt.lineBreak()
		return
	}

	if blocks[n.DataAtom] {
		txt.space()
		t.collect(txt, n, skipLists)
		txt.space()
		return
	}

	style, ok := t.sheet.InlineStyle(tagName(n))
	if n.DataAtom == atom.A {
		if href := attr(n, "href"); href != "" {
			style.Link = href
			ok = true
		}
	}
	if !ok {
		t.collect(txt, n, skipLists)
		return
	}

	start := txt.mark()
	t.collect(txt, n, skipLists)
	txt.addRun(start, style)
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// findAll returns descendants of n with tag a, in document order, without
// descending into matches.
func findAll(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == a {
			out = append(out, c)
			continue
		}
		out = append(out, findAll(c, a)...)
	}
	return out
}

// nestedLists returns the outermost ul/ol elements below item.
func nestedLists(item *html.Node) []*html.Node {
	var out []*html.Node
	for c := item.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == atom.Ul || c.DataAtom == atom.Ol {
			out = append(out, c)
			continue
		}
		out = append(out, nestedLists(c)...)
	}
	return out
}

func listStart(list *html.Node) int {
	if list.DataAtom != atom.Ol {
		return 1
	}
	if v, err := strconv.Atoi(attr(list, "start")); err == nil && v > 1 {
		return v
	}
	return 1
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func tagName(n *html.Node) string {
	return strings.ToLower(n.Data)
}
