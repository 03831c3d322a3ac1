package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes dangerous HTML elements and attributes.
// It runs on uploaded HTML files and on the HTML rendered from markdown before
// that HTML is walked into edit operations.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer based on the UGC (user generated content)
// policy: formatting, headings, lists, links, tables and code survive; scripts,
// event handlers and javascript: URLs do not.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()

	// Ordered lists keep their starting number.
	policy.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")

	return &HTMLSanitizer{policy: policy}
}

// Sanitize removes dangerous HTML while preserving safe content.
func (s *HTMLSanitizer) Sanitize(html string) (string, error) {
	return s.policy.Sanitize(html), nil
}

// SanitizeBytes is Sanitize for byte slices.
func (s *HTMLSanitizer) SanitizeBytes(html []byte) []byte {
	return s.policy.SanitizeBytes(html)
}
