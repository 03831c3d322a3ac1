// Package classifier decides whether plain text looks like markdown source.
//
// The decision is a filter, not a validator: a fixed table of named signals is
// evaluated independently and combined by a two-tier rule. Text is markdown-like
// when at least two distinct signals match, or when any important signal
// (heading, list, emphasis) matches on its own.
package classifier

import (
	"regexp"
	"strings"
)

// Signal is one named markdown predicate over text.
type Signal struct {
	Name      string
	Important bool
	pattern   *regexp.Regexp
}

// Match reports whether the signal fires anywhere in text.
func (s Signal) Match(text string) bool {
	return s.pattern.MatchString(text)
}

// Signal names, as reported in a Verdict.
const (
	SignalHeading        = "heading"
	SignalBulletList     = "bullet_list"
	SignalOrderedList    = "ordered_list"
	SignalCodeFence      = "code_fence"
	SignalInlineCode     = "inline_code"
	SignalEmphasis       = "emphasis"
	SignalLink           = "link"
	SignalBlockquote     = "blockquote"
	SignalTableRow       = "table_row"
	SignalHorizontalRule = "horizontal_rule"
)

var signals = []Signal{
	{Name: SignalHeading, Important: true, pattern: regexp.MustCompile(`(?m)^#{1,6}[ \t]+\S`)},
	{Name: SignalBulletList, Important: true, pattern: regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+\S`)},
	{Name: SignalOrderedList, Important: true, pattern: regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+\S`)},
	{Name: SignalCodeFence, pattern: regexp.MustCompile("(?s)```.*?```")},
	{Name: SignalInlineCode, pattern: regexp.MustCompile("`[^`\n]+`")},
	{Name: SignalEmphasis, Important: true, pattern: regexp.MustCompile(`\*\*|\*|__|_`)},
	{Name: SignalLink, pattern: regexp.MustCompile(`\[[^\]\n]*\]\([^)\n]*\)`)},
	{Name: SignalBlockquote, pattern: regexp.MustCompile(`(?m)^[ \t]*>[ \t]*\S`)},
	{Name: SignalTableRow, pattern: regexp.MustCompile(`(?m)^.+\|.+$`)},
	{Name: SignalHorizontalRule, pattern: regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)},
}

// Signals returns the signal table in evaluation order.
func Signals() []Signal {
	out := make([]Signal, len(signals))
	copy(out, signals)
	return out
}

// Verdict is the classifier's decision plus the signals that matched.
type Verdict struct {
	Markdown bool     `json:"markdown"`
	Signals  []string `json:"signals"`
}

// Analyze evaluates every signal against text and applies the decision rule.
func Analyze(text string) Verdict {
	v := Verdict{Signals: []string{}}
	if strings.TrimSpace(text) == "" {
		return v
	}

	important := false
	for _, s := range signals {
		if !s.Match(text) {
			continue
		}
		v.Signals = append(v.Signals, s.Name)
		if s.Important {
			important = true
		}
	}

	v.Markdown = len(v.Signals) >= 2 || important
	return v
}

// Classify reports whether text should be treated as markdown source.
func Classify(text string) bool {
	return Analyze(text).Markdown
}
