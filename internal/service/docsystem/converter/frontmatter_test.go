package converter

import "testing"

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMeta bool
		wantKeys int
		wantBody string
	}{
		{
			name:     "title and body",
			input:    "---\ntitle: Weekly Notes\ntags: [a, b]\n---\n# Heading\n",
			wantMeta: true,
			wantKeys: 2,
			wantBody: "# Heading\n",
		},
		{
			name:     "crlf delimiters",
			input:    "---\r\ntitle: x\r\n---\r\nbody",
			wantMeta: true,
			wantKeys: 1,
			wantBody: "body",
		},
		{
			name:     "empty block is two rules",
			input:    "---\n---\nbody",
			wantBody: "---\n---\nbody",
		},
		{
			name:     "heading between rules is kept",
			input:    "---\n# Quarterly Report\n---\nBody text with **bold**.\n",
			wantBody: "---\n# Quarterly Report\n---\nBody text with **bold**.\n",
		},
		{
			name:     "blank lines between rules are kept",
			input:    "---\n\n---\nbody",
			wantBody: "---\n\n---\nbody",
		},
		{
			name:     "no frontmatter",
			input:    "# Heading\n---\n",
			wantBody: "# Heading\n---\n",
		},
		{
			name:     "unterminated",
			input:    "---\ntitle: x\nbody",
			wantBody: "---\ntitle: x\nbody",
		},
		{
			name:     "invalid yaml is kept as content",
			input:    "---\n: : :\n  - [\n---\nbody",
			wantBody: "---\n: : :\n  - [\n---\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body := SplitFrontmatter([]byte(tt.input))
			if (meta != nil) != tt.wantMeta {
				t.Errorf("metadata = %v, want present=%v", meta, tt.wantMeta)
			}
			if len(meta) != tt.wantKeys {
				t.Errorf("metadata keys = %d, want %d", len(meta), tt.wantKeys)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
