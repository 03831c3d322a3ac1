package transformer

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"docbridge/internal/domain/models"
)

func newTestTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return tr
}

func transform(t *testing.T, src string) []models.EditOperation {
	t.Helper()
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("html.Parse error: %v", err)
	}
	return newTestTransformer(t).Transform(root)
}

func inserts(ops []models.EditOperation) []models.EditOperation {
	var out []models.EditOperation
	for _, op := range ops {
		if op.Kind == models.EditInsertText {
			out = append(out, op)
		}
	}
	return out
}

func TestTransform_HeadingAndParagraph(t *testing.T) {
	ops := transform(t, "<h1>Title</h1><p>Body</p>")

	if len(ops) != 4 {
		t.Fatalf("got %d operations, want 4: %+v", len(ops), ops)
	}

	if ops[0].Kind != models.EditInsertText || ops[0].Index != 1 || ops[0].Text != "Title\n" {
		t.Errorf("ops[0] = %+v, want InsertText(\"Title\\n\") at 1", ops[0])
	}

	if ops[1].Kind != models.EditSetParagraphStyle {
		t.Fatalf("ops[1].Kind = %s, want %s", ops[1].Kind, models.EditSetParagraphStyle)
	}
	if ops[1].Range != (models.Range{Start: 1, End: 6}) {
		t.Errorf("ops[1].Range = %+v, want [1,6)", ops[1].Range)
	}
	if ops[1].ParagraphStyle.NamedStyle != "HEADING_1" {
		t.Errorf("ops[1] named style = %q, want HEADING_1", ops[1].ParagraphStyle.NamedStyle)
	}
	if ops[1].TextStyle == nil || !ops[1].TextStyle.Bold || ops[1].TextStyle.FontSize != 24 {
		t.Errorf("ops[1] text style = %+v, want bold 24pt", ops[1].TextStyle)
	}

	if ops[2].Kind != models.EditInsertText || ops[2].Index != 7 || ops[2].Text != "Body\n" {
		t.Errorf("ops[2] = %+v, want InsertText(\"Body\\n\") at 7", ops[2])
	}

	if ops[3].Kind != models.EditSetParagraphStyle || ops[3].Range != (models.Range{Start: 7, End: 11}) {
		t.Errorf("ops[3] = %+v, want paragraph style over [7,11)", ops[3])
	}
	if ops[3].ParagraphStyle.NamedStyle != "NORMAL_TEXT" {
		t.Errorf("ops[3] named style = %q, want NORMAL_TEXT", ops[3].ParagraphStyle.NamedStyle)
	}
	if ops[3].TextStyle != nil {
		t.Errorf("ops[3] text style = %+v, want nil", ops[3].TextStyle)
	}
}

func TestTransform_UnorderedList(t *testing.T) {
	ops := transform(t, "<ul><li>A</li><li>B</li></ul>")

	ins := inserts(ops)
	if len(ins) != 2 {
		t.Fatalf("got %d inserts, want 2: %+v", len(ins), ops)
	}
	if ins[0].Text != "• A\n" || ins[0].Index != 1 {
		t.Errorf("first insert = %q at %d, want \"• A\\n\" at 1", ins[0].Text, ins[0].Index)
	}
	if ins[1].Text != "• B\n" || ins[1].Index != 5 {
		t.Errorf("second insert = %q at %d, want \"• B\\n\" at 5", ins[1].Text, ins[1].Index)
	}

	for _, op := range ops {
		if op.Kind == models.EditSetParagraphStyle && op.ParagraphStyle.IndentStart != 36 {
			t.Errorf("list item indent = %v, want 36", op.ParagraphStyle.IndentStart)
		}
	}
}

func TestTransform_OrderedListUsesOrdinals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{name: "default start", src: "<ol><li>one</li><li>two</li></ol>", want: []string{"1. one\n", "2. two\n"}},
		{name: "explicit start", src: `<ol start="3"><li>a</li><li>b</li></ol>`, want: []string{"3. a\n", "4. b\n"}},
		{name: "zero start clamps to one", src: `<ol start="0"><li>a</li></ol>`, want: []string{"1. a\n"}},
		{name: "negative start clamps to one", src: `<ol start="-3"><li>a</li><li>b</li></ol>`, want: []string{"1. a\n", "2. b\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := inserts(transform(t, tt.src))
			if len(ins) != len(tt.want) {
				t.Fatalf("got %d inserts, want %d", len(ins), len(tt.want))
			}
			for i, w := range tt.want {
				if ins[i].Text != w {
					t.Errorf("insert %d = %q, want %q", i, ins[i].Text, w)
				}
			}
		})
	}
}

func TestTransform_NestedListIndentsDeeper(t *testing.T) {
	ops := transform(t, "<ul><li>parent<ul><li>child</li></ul></li><li>next</li></ul>")

	var texts []string
	var indents []float64
	for _, op := range ops {
		switch op.Kind {
		case models.EditInsertText:
			texts = append(texts, op.Text)
		case models.EditSetParagraphStyle:
			indents = append(indents, op.ParagraphStyle.IndentStart)
		}
	}

	wantTexts := []string{"• parent\n", "• child\n", "• next\n"}
	wantIndents := []float64{36, 72, 36}
	if strings.Join(texts, "") != strings.Join(wantTexts, "") {
		t.Errorf("texts = %q, want %q", texts, wantTexts)
	}
	if len(indents) != len(wantIndents) {
		t.Fatalf("indents = %v, want %v", indents, wantIndents)
	}
	for i := range wantIndents {
		if indents[i] != wantIndents[i] {
			t.Errorf("indent %d = %v, want %v", i, indents[i], wantIndents[i])
		}
	}
}

func TestTransform_WhitespaceOnlyEmitsNothing(t *testing.T) {
	ops := transform(t, "<p>   \n\t </p><h2> </h2><p>x</p>")

	if len(ops) != 2 {
		t.Fatalf("got %d operations, want 2: %+v", len(ops), ops)
	}
	if ops[0].Index != 1 || ops[0].Text != "x\n" {
		t.Errorf("ops[0] = %+v, want InsertText(\"x\\n\") at 1", ops[0])
	}
}

func TestTransform_EmptyListItemEmitsNothing(t *testing.T) {
	ins := inserts(transform(t, "<ul><li> </li><li>B</li></ul>"))
	if len(ins) != 1 || ins[0].Text != "• B\n" || ins[0].Index != 1 {
		t.Errorf("inserts = %+v, want single \"• B\\n\" at 1", ins)
	}
}

func TestTransform_InlineRuns(t *testing.T) {
	ops := transform(t, `<p>Hello <strong>world</strong>! see <a href="https://example.com">docs</a></p>`)

	if ops[0].Text != "Hello world! see docs\n" {
		t.Fatalf("insert text = %q", ops[0].Text)
	}

	var runs []models.EditOperation
	for _, op := range ops {
		if op.Kind == models.EditSetTextStyle {
			runs = append(runs, op)
		}
	}
	if len(runs) != 2 {
		t.Fatalf("got %d text style runs, want 2: %+v", len(runs), ops)
	}
	if runs[0].Range != (models.Range{Start: 7, End: 12}) || !runs[0].TextStyle.Bold {
		t.Errorf("bold run = %+v, want bold over [7,12)", runs[0])
	}
	if runs[1].Range != (models.Range{Start: 18, End: 22}) || runs[1].TextStyle.Link != "https://example.com" {
		t.Errorf("link run = %+v, want link over [18,22)", runs[1])
	}

	// runs come after the paragraph's own style update
	if ops[1].Kind != models.EditSetParagraphStyle {
		t.Errorf("ops[1].Kind = %s, want paragraph style before runs", ops[1].Kind)
	}
}

func TestTransform_CollapsesWhitespace(t *testing.T) {
	ops := transform(t, "<p>  soft\nwrapped   line  </p>")
	if ops[0].Text != "soft wrapped line\n" {
		t.Errorf("insert text = %q, want %q", ops[0].Text, "soft wrapped line\n")
	}
}

func TestTransform_PreformattedKeepsWhitespace(t *testing.T) {
	ops := transform(t, "<pre><code>line1\n  line2\n</code></pre>")

	if len(ops) != 2 {
		t.Fatalf("got %d operations, want 2: %+v", len(ops), ops)
	}
	if ops[0].Text != "line1\n  line2\n" {
		t.Errorf("insert text = %q", ops[0].Text)
	}
	style := ops[1]
	if style.Range != (models.Range{Start: 1, End: 14}) {
		t.Errorf("range = %+v, want [1,14)", style.Range)
	}
	if style.TextStyle == nil || style.TextStyle.FontFamily != "Courier New" {
		t.Errorf("text style = %+v, want monospace", style.TextStyle)
	}
	if style.ParagraphStyle.Shading == "" {
		t.Error("code block should be shaded")
	}
}

func TestTransform_Blockquote(t *testing.T) {
	ops := transform(t, "<blockquote><p>quoted</p></blockquote>")

	if len(ops) != 2 || ops[0].Text != "quoted\n" {
		t.Fatalf("ops = %+v", ops)
	}
	ps := ops[1].ParagraphStyle
	if ps == nil || ps.IndentStart == 0 || ps.BorderLeft == nil {
		t.Errorf("paragraph style = %+v, want indent and left border", ps)
	}
}

func TestTransform_BlockquoteKeepsStructure(t *testing.T) {
	ops := transform(t, "<blockquote>\n<p>one</p>\n<ul>\n<li>x</li>\n<li>y</li>\n</ul>\n<p>two</p>\n</blockquote>")

	ins := inserts(ops)
	want := []string{"one\n", "• x\n", "• y\n", "two\n"}
	if len(ins) != len(want) {
		t.Fatalf("inserts = %+v, want %q", ins, want)
	}
	for i, w := range want {
		if ins[i].Text != w {
			t.Errorf("insert %d = %q, want %q", i, ins[i].Text, w)
		}
	}

	var quoteIndent, itemIndent float64
	for _, op := range ops {
		if op.ParagraphStyle == nil {
			continue
		}
		if op.ParagraphStyle.BorderLeft != nil {
			quoteIndent = op.ParagraphStyle.IndentStart
		} else {
			itemIndent = op.ParagraphStyle.IndentStart
		}
	}
	if quoteIndent == 0 || itemIndent <= quoteIndent {
		t.Errorf("quote indent %v, item indent %v: items should sit deeper than the quote", quoteIndent, itemIndent)
	}
}

func TestTransform_BlockquoteNesting(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantText   []string
		wantIndent []float64
		wantStyle  string
	}{
		{
			name:       "separate paragraphs",
			src:        "<blockquote><p>a</p><p>b</p></blockquote>",
			wantText:   []string{"a\n", "b\n"},
			wantIndent: []float64{36, 36},
		},
		{
			name:       "nested quote indents deeper",
			src:        "<blockquote><p>a</p><blockquote><p>b</p></blockquote></blockquote>",
			wantText:   []string{"a\n", "b\n"},
			wantIndent: []float64{36, 72},
		},
		{
			name:       "loose inline content",
			src:        "<blockquote>loose <em>words</em></blockquote>",
			wantText:   []string{"loose words\n"},
			wantIndent: []float64{36},
		},
		{
			name:       "heading keeps its named style",
			src:        "<blockquote><h2>Title</h2></blockquote>",
			wantText:   []string{"Title\n"},
			wantIndent: []float64{36},
			wantStyle:  "HEADING_2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := transform(t, tt.src)

			var texts []string
			var styles []*models.ParagraphStyle
			for _, op := range ops {
				switch {
				case op.Kind == models.EditInsertText:
					texts = append(texts, op.Text)
				case op.ParagraphStyle != nil:
					styles = append(styles, op.ParagraphStyle)
				}
			}
			if len(texts) != len(tt.wantText) || len(styles) != len(tt.wantIndent) {
				t.Fatalf("texts = %q, %d paragraph styles", texts, len(styles))
			}
			for i := range tt.wantText {
				if texts[i] != tt.wantText[i] {
					t.Errorf("text %d = %q, want %q", i, texts[i], tt.wantText[i])
				}
				if styles[i].IndentStart != tt.wantIndent[i] || styles[i].BorderLeft == nil {
					t.Errorf("style %d = %+v, want indent %v with border", i, styles[i], tt.wantIndent[i])
				}
			}
			if tt.wantStyle != "" && styles[0].NamedStyle != tt.wantStyle {
				t.Errorf("named style = %q, want %q", styles[0].NamedStyle, tt.wantStyle)
			}
		})
	}
}

func TestTransform_DropsCharactersTheRemoteStrips(t *testing.T) {
	ops := transform(t, "<p>a\x01b \ue000 c <strong>bold</strong></p>")

	if ops[0].Text != "ab c bold\n" {
		t.Fatalf("insert = %q, want %q", ops[0].Text, "ab c bold\n")
	}
	var bold *models.EditOperation
	for i := range ops {
		if ops[i].Kind == models.EditSetTextStyle && ops[i].TextStyle.Bold {
			bold = &ops[i]
		}
	}
	if bold == nil || bold.Range != (models.Range{Start: 6, End: 10}) {
		t.Errorf("bold op = %+v, want range [6,10)", bold)
	}
}

func TestTransform_PreformattedKeepsFormFeedOnly(t *testing.T) {
	ops := transform(t, "<pre>a\x02b\fc\uf0b7d</pre>")

	if ops[0].Text != "ab\fcd\n" {
		t.Errorf("insert = %q, want %q", ops[0].Text, "ab\fcd\n")
	}
}

func TestTransform_PrivateUseBulletsDoNotShiftLaterRanges(t *testing.T) {
	ops := transform(t, "<p>\uf0b7 item</p><h1>Next</h1>")

	ins := inserts(ops)
	if len(ins) != 2 || ins[0].Text != "item\n" || ins[1].Index != 6 {
		t.Fatalf("inserts = %+v", ins)
	}
}

func TestTransform_SkipsScriptAndStyle(t *testing.T) {
	ops := transform(t, "<div><script>alert(1)</script><style>.a{}</style><p>ok</p></div>")

	ins := inserts(ops)
	if len(ins) != 1 || ins[0].Text != "ok\n" {
		t.Errorf("inserts = %+v, want only \"ok\\n\"", ins)
	}
}

func TestTransform_UnknownTagIsPlainParagraph(t *testing.T) {
	ops := transform(t, "<custom-tag>hello</custom-tag>")

	if len(ops) != 1 {
		t.Fatalf("got %d operations, want 1: %+v", len(ops), ops)
	}
	if ops[0].Kind != models.EditInsertText || ops[0].Text != "hello\n" {
		t.Errorf("ops[0] = %+v", ops[0])
	}
}

func TestTransform_TableRows(t *testing.T) {
	ops := transform(t, "<table><thead><tr><th>a</th><th>b</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table>")

	ins := inserts(ops)
	if len(ins) != 2 || ins[0].Text != "a | b\n" || ins[1].Text != "1 | 2\n" {
		t.Fatalf("inserts = %+v", ins)
	}
	if ops[1].Kind != models.EditSetTextStyle || !ops[1].TextStyle.Bold {
		t.Errorf("header row style = %+v, want bold text style", ops[1])
	}
	if ops[len(ops)-1].Kind != models.EditInsertText {
		t.Errorf("body row should have no style update, got %+v", ops[len(ops)-1])
	}
}

func TestTransform_CursorIsMonotonic(t *testing.T) {
	ops := transform(t, "<h1>Héllo 😀</h1><p>a</p><ul><li>x</li></ul><pre>code</pre><p>end</p>")

	next := int64(1)
	for _, op := range ops {
		if op.Kind != models.EditInsertText {
			continue
		}
		if op.Index != next {
			t.Fatalf("insert %q at %d, want %d", op.Text, op.Index, next)
		}
		next += utf16Len(op.Text)
	}

	// "Héllo 😀" is 8 UTF-16 units: the emoji takes two.
	if ops[1].Range != (models.Range{Start: 1, End: 9}) {
		t.Errorf("heading range = %+v, want [1,9)", ops[1].Range)
	}
}

func TestTransform_NilAndEmpty(t *testing.T) {
	tr := newTestTransformer(t)
	if ops := tr.Transform(nil); len(ops) != 0 {
		t.Errorf("Transform(nil) = %+v, want empty", ops)
	}
	if ops := transform(t, ""); len(ops) != 0 {
		t.Errorf("Transform(empty) = %+v, want empty", ops)
	}
}

func TestTransformHTML(t *testing.T) {
	ops, err := newTestTransformer(t).TransformHTML([]byte("<h2>Sub</h2>"))
	if err != nil {
		t.Fatalf("TransformHTML error: %v", err)
	}
	if len(ops) != 2 || ops[1].ParagraphStyle.NamedStyle != "HEADING_2" {
		t.Errorf("ops = %+v", ops)
	}
}

func TestTransform_IsIndependentPerCall(t *testing.T) {
	tr := newTestTransformer(t)
	root, _ := html.Parse(strings.NewReader("<p>first</p>"))

	a := tr.Transform(root)
	b := tr.Transform(root)
	if a[0].Index != 1 || b[0].Index != 1 {
		t.Errorf("cursor not reset between documents: %d, %d", a[0].Index, b[0].Index)
	}
}
