package classifier

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: false},
		{name: "whitespace only", text: "  \n\t\n   ", want: false},
		{name: "plain prose", text: "Meeting notes from Tuesday.\nWe agreed on the plan.", want: false},
		{name: "heading alone", text: "# Title\nplain text follows", want: true},
		{name: "deeper heading", text: "### Section", want: true},
		{name: "hash without space", text: "#hashtag", want: false},
		{name: "bullet list alone", text: "Groceries\n- milk\n- eggs", want: true},
		{name: "plus bullet", text: "+ item", want: true},
		{name: "ordered list alone", text: "Steps\n1. open\n2. close", want: true},
		{name: "emphasis alone", text: "this is **important** stuff", want: true},
		{name: "underscore counts as emphasis", text: "see snake_case names", want: true},
		{name: "table row alone", text: "name | value", want: false},
		{name: "link alone", text: "read [the docs](https://example.com/docs)", want: false},
		{name: "inline code alone", text: "run `make build` first", want: false},
		{name: "blockquote alone", text: "> quoted line", want: false},
		{name: "horizontal rule alone", text: "above\n---\nbelow", want: false},
		{name: "bare hash line", text: "#\nplain text", want: false},
		{name: "bare marker lines", text: "-\n#\n1.\nplain text", want: false},
		{name: "marker followed by newline", text: "# \nTitle on the next line", want: false},
		{name: "code fence alone", text: "```go\nfmt.Println()\n```", want: false},
		{name: "two minor signals", text: "> quoted line\nname | value", want: true},
		{name: "link and inline code", text: "run `make` then read [docs](https://example.com)", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v (signals %v)", tt.text, got, tt.want, Analyze(tt.text).Signals)
			}
		})
	}
}

func TestClassify_HeadingLineAlwaysMarkdown(t *testing.T) {
	inputs := []string{
		"# a",
		"intro\n# Heading in the middle\noutro",
		"# 1",
		"text | with pipe\n# Heading",
	}
	for _, in := range inputs {
		if !Classify(in) {
			t.Errorf("Classify(%q) = false, want true", in)
		}
	}
}

func TestAnalyze_ReportsMatchedSignals(t *testing.T) {
	text := "# Title\n\n- item\n\n> quote\n\n[link](https://example.com)"
	got := Analyze(text)

	want := []string{SignalHeading, SignalBulletList, SignalLink, SignalBlockquote}
	if !reflect.DeepEqual(got.Signals, want) {
		t.Errorf("Signals = %v, want %v", got.Signals, want)
	}
	if !got.Markdown {
		t.Error("Markdown = false, want true")
	}
}

func TestAnalyze_NoSignals(t *testing.T) {
	got := Analyze("Nothing special here.")
	if got.Markdown {
		t.Error("Markdown = true, want false")
	}
	if len(got.Signals) != 0 {
		t.Errorf("Signals = %v, want none", got.Signals)
	}
	if got.Signals == nil {
		t.Error("Signals should be an empty slice, not nil")
	}
}

func TestSignals_EachPredicateMatchesItsExample(t *testing.T) {
	examples := map[string]string{
		SignalHeading:        "## Heading",
		SignalBulletList:     "* item",
		SignalOrderedList:    "12. item",
		SignalCodeFence:      "```\ncode\n```",
		SignalInlineCode:     "`x`",
		SignalEmphasis:       "__bold__",
		SignalLink:           "[a](b)",
		SignalBlockquote:     "> q",
		SignalTableRow:       "| a | b |",
		SignalHorizontalRule: "***",
	}

	table := Signals()
	if len(table) != len(examples) {
		t.Fatalf("signal table has %d entries, want %d", len(table), len(examples))
	}
	for _, s := range table {
		ex, ok := examples[s.Name]
		if !ok {
			t.Errorf("no example for signal %q", s.Name)
			continue
		}
		if !s.Match(ex) {
			t.Errorf("signal %q does not match %q", s.Name, ex)
		}
	}
}

func TestSignals_ImportantSet(t *testing.T) {
	var important []string
	for _, s := range Signals() {
		if s.Important {
			important = append(important, s.Name)
		}
	}
	want := []string{SignalHeading, SignalBulletList, SignalOrderedList, SignalEmphasis}
	if !reflect.DeepEqual(important, want) {
		t.Errorf("important signals = %v, want %v", important, want)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	text := "Intro\n\n- a\n- b\n\n`code`"
	first := Analyze(text)
	for i := 0; i < 5; i++ {
		if got := Analyze(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Analyze = %+v, want %+v", i, got, first)
		}
	}
}
