package transformer

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"docbridge/internal/domain/models"
)

// inlineText accumulates the text of one block while tracking styled runs.
// Outside preformatted blocks whitespace is collapsed to single spaces and
// trimmed at both ends, so run offsets always refer to the final text.
type inlineText struct {
	buf          strings.Builder
	units        int64
	contentStart int64
	pending      bool
	preserve     bool
	visible      bool
	runs         []Run
}

func newInlineText(preserve bool) *inlineText {
	return &inlineText{preserve: preserve}
}

// droppedByRemote reports whether the remote document silently removes r on
// insertion: C0 controls other than tab, newline and vertical tab, and the
// private use area. Form feed survives inside preformatted text.
func droppedByRemote(r rune, preserve bool) bool {
	switch {
	case r <= 0x08:
		return true
	case r == '\f':
		return !preserve
	case r >= 0x0D && r <= 0x1F:
		return true
	case r >= 0xE000 && r <= 0xF8FF:
		return true
	}
	return false
}

// keepRemote removes the runes droppedByRemote would strip.
func keepRemote(s string, preserve bool) string {
	return strings.Map(func(r rune) rune {
		if droppedByRemote(r, preserve) {
			return -1
		}
		return r
	}, s)
}

// literal writes a prefix (bullet, ordinal) that does not count as content.
func (t *inlineText) literal(s string) {
	s = keepRemote(s, false)
	t.buf.WriteString(s)
	t.units += utf16Len(s)
	t.contentStart = t.units
}

func (t *inlineText) write(s string) {
	if t.preserve {
		s = keepRemote(s, true)
		t.buf.WriteString(s)
		t.units += utf16Len(s)
		if strings.TrimSpace(s) != "" {
			t.visible = true
		}
		return
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			t.space()
			continue
		}
		if droppedByRemote(r, false) {
			continue
		}
		if t.pending {
			t.buf.WriteByte(' ')
			t.units++
			t.pending = false
		}
		t.buf.WriteRune(r)
		t.units += int64(utf16.RuneLen(r))
		t.visible = true
	}
}

// space requests a separator before the next visible character.
func (t *inlineText) space() {
	if t.units > t.contentStart {
		t.pending = true
	}
}

// lineBreak handles <br>: a newline in preformatted text, a space elsewhere.
func (t *inlineText) lineBreak() {
	if t.preserve {
		t.write("\n")
		return
	}
	t.space()
}

// mark returns the offset the next visible character will land on.
func (t *inlineText) mark() int64 {
	if t.pending {
		return t.units + 1
	}
	return t.units
}

func (t *inlineText) addRun(start int64, style models.TextStyle) {
	if t.preserve || style.IsZero() {
		return
	}
	if end := t.units; end > start {
		t.runs = append(t.runs, Run{Start: start, End: end, Style: style})
	}
}

// hasContent reports whether anything besides the prefix and whitespace was written.
func (t *inlineText) hasContent() bool {
	return t.visible
}

// text returns the final block text.
func (t *inlineText) text() string {
	s := t.buf.String()
	if t.preserve {
		s = strings.TrimRight(s, "\r\n")
	}
	return s
}
