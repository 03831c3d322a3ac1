package converter

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// SplitFrontmatter separates a leading YAML frontmatter block from markdown.
// Content without a well-formed block holding at least one key is returned
// unchanged with nil metadata.
//
// Expected format:
// ---
// title: Weekly Notes
// ---
// # Markdown content here
func SplitFrontmatter(content []byte) (map[string]interface{}, []byte) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, content
	}

	lines := bytes.Split(content, []byte("\n"))

	// Skip the opening "---" line
	closing := 0
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			closing = i
			break
		}
	}
	if closing == 0 {
		return nil, content
	}

	// A block of only comments ("# Heading") or blank lines is content between two rules.
	var metadata map[string]interface{}
	if err := yaml.Unmarshal(bytes.Join(lines[1:closing], []byte("\n")), &metadata); err != nil || len(metadata) == 0 {
		return nil, content
	}

	return metadata, bytes.TrimLeft(bytes.Join(lines[closing+1:], []byte("\n")), "\r\n")
}
