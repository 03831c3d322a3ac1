package transformer

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"docbridge/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// BlockStyle is the style mapping for one block-level tag.
// A nil part means the tag does not touch that style level.
type BlockStyle struct {
	Paragraph *models.ParagraphStyle `yaml:"paragraph"`
	Text      *models.TextStyle      `yaml:"text"`
}

// IsZero reports whether the mapping sets nothing, i.e. plain-paragraph treatment.
func (s BlockStyle) IsZero() bool {
	return (s.Paragraph == nil || s.Paragraph.IsZero()) && (s.Text == nil || s.Text.IsZero())
}

// ListStyle configures list item rendering.
type ListStyle struct {
	Paragraph      models.ParagraphStyle `yaml:"paragraph"`
	IndentPerLevel float64               `yaml:"indent_per_level"`
	Bullet         string                `yaml:"bullet"`
	OrdinalFormat  string                `yaml:"ordinal_format"`
}

// StyleSheet maps HTML tags to remote document styles.
type StyleSheet struct {
	Blocks map[string]BlockStyle       `yaml:"blocks"`
	Lists  ListStyle                   `yaml:"lists"`
	Inline map[string]models.TextStyle `yaml:"inline"`
}

// DefaultStyleSheet loads the embedded default stylesheet.
func DefaultStyleSheet() (*StyleSheet, error) {
	return LoadStyleSheet("default")
}

// LoadStyleSheet loads an embedded stylesheet by name (config/<name>.yaml).
func LoadStyleSheet(name string) (*StyleSheet, error) {
	filename := fmt.Sprintf("config/%s.yaml", name)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return ParseStyleSheet(data)
}

// LoadStyleSheetFile loads a stylesheet from disk.
func LoadStyleSheetFile(path string) (*StyleSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet: %w", err)
	}
	return ParseStyleSheet(data)
}

// ParseStyleSheet decodes a YAML stylesheet and fills list defaults.
func ParseStyleSheet(data []byte) (*StyleSheet, error) {
	var sheet StyleSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stylesheet: %w", err)
	}
	if sheet.Blocks == nil {
		sheet.Blocks = map[string]BlockStyle{}
	}
	if sheet.Inline == nil {
		sheet.Inline = map[string]models.TextStyle{}
	}
	if sheet.Lists.Bullet == "" {
		sheet.Lists.Bullet = "• "
	}
	if sheet.Lists.OrdinalFormat == "" {
		sheet.Lists.OrdinalFormat = "%d. "
	}
	return &sheet, nil
}

// Block returns the mapping for tag; unknown tags get the zero (plain) mapping.
func (s *StyleSheet) Block(tag string) BlockStyle {
	return s.Blocks[tag]
}

// Quote returns the blockquote mapping for a quote nested depth levels deep
// (1 = outermost), its indent scaled by depth.
func (s *StyleSheet) Quote(depth int) BlockStyle {
	q := s.Blocks["blockquote"]
	if q.Paragraph != nil {
		p := *q.Paragraph
		p.IndentStart *= float64(depth)
		q.Paragraph = &p
	}
	return q
}

// Quoted returns the mapping for a tag inside a quote. Paragraphs and unmapped
// tags take the quote mapping; other blocks keep their own styles and gain the
// quote's indent and border.
func (s *StyleSheet) Quoted(tag string, depth int) BlockStyle {
	quote := s.Quote(depth)
	own := s.Block(tag)
	if tag == "p" || own.IsZero() {
		return quote
	}

	var p models.ParagraphStyle
	if own.Paragraph != nil {
		p = *own.Paragraph
	}
	if quote.Paragraph != nil {
		p.IndentStart = quote.Paragraph.IndentStart
		p.BorderLeft = quote.Paragraph.BorderLeft
	}
	return BlockStyle{Paragraph: &p, Text: own.Text}
}

// ListItem returns the paragraph mapping for a list item nested at level (0 = top).
func (s *StyleSheet) ListItem(level int) BlockStyle {
	p := s.Lists.Paragraph
	p.IndentStart = s.Lists.IndentPerLevel * float64(level+1)
	return BlockStyle{Paragraph: &p}
}

// Prefix returns the list item prefix: the bullet glyph, or the formatted ordinal.
func (s *StyleSheet) Prefix(ordered bool, ordinal int) string {
	if !ordered {
		return s.Lists.Bullet
	}
	return fmt.Sprintf(s.Lists.OrdinalFormat, ordinal)
}

// InlineStyle returns the text style for an inline tag and whether one is defined.
func (s *StyleSheet) InlineStyle(tag string) (models.TextStyle, bool) {
	st, ok := s.Inline[tag]
	return st, ok
}
