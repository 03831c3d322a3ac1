package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"
)

// Builder assembles an in-memory ZIP archive. Entry names are made unique by
// appending " (2)", " (3)", ... before the extension.
// A Builder is not safe for concurrent use.
type Builder struct {
	buf     *bytes.Buffer
	zw      *zip.Writer
	names   map[string]struct{}
	entries []string
	closed  bool
	now     func() time.Time
}

// NewBuilder returns an empty archive builder.
func NewBuilder() *Builder {
	buf := new(bytes.Buffer)
	return &Builder{
		buf:   buf,
		zw:    zip.NewWriter(buf),
		names: make(map[string]struct{}),
		now:   time.Now,
	}
}

// Add writes data under name and returns the entry name actually used.
func (b *Builder) Add(name string, data []byte) (string, error) {
	if b.closed {
		return "", fmt.Errorf("archive already finalized")
	}

	entry := b.uniqueName(sanitizeEntryName(name))
	w, err := b.zw.CreateHeader(&zip.FileHeader{
		Name:     entry,
		Method:   zip.Deflate,
		Modified: b.now(),
	})
	if err != nil {
		return "", fmt.Errorf("create entry %q: %w", entry, err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("write entry %q: %w", entry, err)
	}

	b.names[strings.ToLower(entry)] = struct{}{}
	b.entries = append(b.entries, entry)
	return entry, nil
}

// Len returns the number of entries written so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Entries returns the entry names in insertion order.
func (b *Builder) Entries() []string {
	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}

// Finalize closes the archive and returns its bytes.
func (b *Builder) Finalize() ([]byte, error) {
	if !b.closed {
		b.closed = true
		if err := b.zw.Close(); err != nil {
			return nil, fmt.Errorf("close archive: %w", err)
		}
	}
	return b.buf.Bytes(), nil
}

func (b *Builder) uniqueName(name string) string {
	if _, taken := b.names[strings.ToLower(name)]; !taken {
		return name
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if _, taken := b.names[strings.ToLower(candidate)]; !taken {
			return candidate
		}
	}
}

// sanitizeEntryName flattens a document title into a single safe path segment.
func sanitizeEntryName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	name = strings.Trim(name, ".")
	if name == "" {
		return "untitled"
	}
	return name
}
