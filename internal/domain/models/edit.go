package models

// EditKind identifies one of the structural edit operations accepted by the remote document model.
type EditKind string

const (
	EditInsertText        EditKind = "insert_text"
	EditSetTextStyle      EditKind = "set_text_style"
	EditSetParagraphStyle EditKind = "set_paragraph_style"
)

// Range is a half-open [Start, End) span of document indexes.
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Len returns the number of index units covered by the range.
func (r Range) Len() int64 { return r.End - r.Start }

// TextStyle holds character-level attributes. Zero values mean "leave unchanged".
type TextStyle struct {
	Bold            bool    `yaml:"bold" json:"bold,omitempty"`
	Italic          bool    `yaml:"italic" json:"italic,omitempty"`
	Underline       bool    `yaml:"underline" json:"underline,omitempty"`
	Strikethrough   bool    `yaml:"strikethrough" json:"strikethrough,omitempty"`
	FontSize        float64 `yaml:"font_size" json:"font_size,omitempty"` // points
	FontFamily      string  `yaml:"font_family" json:"font_family,omitempty"`
	BackgroundColor string  `yaml:"background_color" json:"background_color,omitempty"` // #rrggbb
	Link            string  `yaml:"-" json:"link,omitempty"`
}

// IsZero reports whether no attribute is set.
func (s TextStyle) IsZero() bool {
	return s == TextStyle{}
}

// Border is a paragraph border.
type Border struct {
	Color string  `yaml:"color" json:"color"` // #rrggbb
	Width float64 `yaml:"width" json:"width"` // points
}

// ParagraphStyle holds paragraph-level attributes. Zero values mean "leave unchanged".
type ParagraphStyle struct {
	NamedStyle  string  `yaml:"named_style" json:"named_style,omitempty"`   // NORMAL_TEXT, HEADING_1, ...
	IndentStart float64 `yaml:"indent_start" json:"indent_start,omitempty"` // points
	Shading     string  `yaml:"shading" json:"shading,omitempty"`           // #rrggbb
	BorderLeft  *Border `yaml:"border_left" json:"border_left,omitempty"`
}

// IsZero reports whether no attribute is set.
func (s ParagraphStyle) IsZero() bool {
	return s.NamedStyle == "" && s.IndentStart == 0 && s.Shading == "" && s.BorderLeft == nil
}

// EditOperation is one positional instruction against a remote document.
// Operations are only meaningful in the order they were emitted.
type EditOperation struct {
	Kind           EditKind        `json:"kind"`
	Index          int64           `json:"index,omitempty"` // EditInsertText
	Text           string          `json:"text,omitempty"`  // EditInsertText
	Range          Range           `json:"range"`
	TextStyle      *TextStyle      `json:"text_style,omitempty"`
	ParagraphStyle *ParagraphStyle `json:"paragraph_style,omitempty"`
}
