package google

import (
	"strconv"
	"strings"

	docs "google.golang.org/api/docs/v1"

	"docbridge/internal/domain/models"
)

const unitPT = "PT"

// borderPadding is the gap between a left border and the paragraph text, in points.
const borderPadding = 6

// BuildRequests maps edit operations onto Docs batchUpdate requests, preserving order.
// A paragraph style operation that also carries a text style becomes two requests
// over the same range: paragraph first, then text.
func BuildRequests(ops []models.EditOperation) []*docs.Request {
	requests := make([]*docs.Request, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case models.EditInsertText:
			if op.Text == "" {
				continue
			}
			requests = append(requests, &docs.Request{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: op.Index},
					Text:     op.Text,
				},
			})
		case models.EditSetParagraphStyle:
			if op.Range.Len() <= 0 {
				continue
			}
			if req := paragraphStyleRequest(op.Range, op.ParagraphStyle); req != nil {
				requests = append(requests, req)
			}
			if req := textStyleRequest(op.Range, op.TextStyle); req != nil {
				requests = append(requests, req)
			}
		case models.EditSetTextStyle:
			if op.Range.Len() <= 0 {
				continue
			}
			if req := textStyleRequest(op.Range, op.TextStyle); req != nil {
				requests = append(requests, req)
			}
		}
	}
	return requests
}

func textStyleRequest(r models.Range, s *models.TextStyle) *docs.Request {
	if s == nil || s.IsZero() {
		return nil
	}

	style := &docs.TextStyle{}
	var fields []string
	if s.Bold {
		style.Bold = true
		fields = append(fields, "bold")
	}
	if s.Italic {
		style.Italic = true
		fields = append(fields, "italic")
	}
	if s.Underline {
		style.Underline = true
		fields = append(fields, "underline")
	}
	if s.Strikethrough {
		style.Strikethrough = true
		fields = append(fields, "strikethrough")
	}
	if s.FontSize > 0 {
		style.FontSize = points(s.FontSize)
		fields = append(fields, "fontSize")
	}
	if s.FontFamily != "" {
		style.WeightedFontFamily = &docs.WeightedFontFamily{FontFamily: s.FontFamily}
		fields = append(fields, "weightedFontFamily")
	}
	if c := optionalColor(s.BackgroundColor); c != nil {
		style.BackgroundColor = c
		fields = append(fields, "backgroundColor")
	}
	if s.Link != "" {
		style.Link = &docs.Link{Url: s.Link}
		fields = append(fields, "link")
	}
	if len(fields) == 0 {
		return nil
	}

	return &docs.Request{
		UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     docsRange(r),
			TextStyle: style,
			Fields:    strings.Join(fields, ","),
		},
	}
}

func paragraphStyleRequest(r models.Range, s *models.ParagraphStyle) *docs.Request {
	if s == nil || s.IsZero() {
		return nil
	}

	style := &docs.ParagraphStyle{}
	var fields []string
	if s.NamedStyle != "" {
		style.NamedStyleType = s.NamedStyle
		fields = append(fields, "namedStyleType")
	}
	if s.IndentStart > 0 {
		style.IndentStart = points(s.IndentStart)
		fields = append(fields, "indentStart")
	}
	if c := optionalColor(s.Shading); c != nil {
		style.Shading = &docs.Shading{BackgroundColor: c}
		fields = append(fields, "shading.backgroundColor")
	}
	if s.BorderLeft != nil && s.BorderLeft.Width > 0 {
		style.BorderLeft = &docs.ParagraphBorder{
			Color:     optionalColor(s.BorderLeft.Color),
			Width:     points(s.BorderLeft.Width),
			Padding:   points(borderPadding),
			DashStyle: "SOLID",
		}
		fields = append(fields, "borderLeft")
	}
	if len(fields) == 0 {
		return nil
	}

	return &docs.Request{
		UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          docsRange(r),
			ParagraphStyle: style,
			Fields:         strings.Join(fields, ","),
		},
	}
}

func docsRange(r models.Range) *docs.Range {
	return &docs.Range{StartIndex: r.Start, EndIndex: r.End}
}

func points(v float64) *docs.Dimension {
	return &docs.Dimension{Magnitude: v, Unit: unitPT}
}

// optionalColor converts "#rrggbb" into a Docs color; anything else yields nil.
func optionalColor(hex string) *docs.OptionalColor {
	rgb, ok := parseHexColor(hex)
	if !ok {
		return nil
	}
	return &docs.OptionalColor{Color: &docs.Color{RgbColor: rgb}}
}

func parseHexColor(hex string) (*docs.RgbColor, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, false
	}
	return &docs.RgbColor{
		Red:   float64(v>>16&0xff) / 255,
		Green: float64(v>>8&0xff) / 255,
		Blue:  float64(v&0xff) / 255,
	}, true
}
