package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	docsysSvc "docbridge/internal/domain/services/docsystem"
)

// ConverterRegistry manages content converters and routes files by extension,
// falling back to the file's MIME type when the name has no usable extension.
//
// Thread-safe for concurrent access.
type ConverterRegistry struct {
	mu         sync.RWMutex
	converters map[string]docsysSvc.ContentConverter // key: file extension (e.g., ".html")
}

// NewConverterRegistry creates a registry with standard converters pre-registered.
func NewConverterRegistry() *ConverterRegistry {
	registry := &ConverterRegistry{
		converters: make(map[string]docsysSvc.ContentConverter),
	}

	registry.Register(NewMarkdownConverter())
	registry.Register(NewTextConverter())
	registry.Register(NewHTMLConverter())

	return registry
}

// Register associates a converter with each of its extensions, normalized to
// lowercase with a leading dot. Later registrations win.
func (r *ConverterRegistry) Register(converter docsysSvc.ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range converter.SupportedExtensions() {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.converters[ext] = converter
	}
}

// GetConverter returns the converter for ext (case-insensitive), or nil.
func (r *ConverterRegistry) GetConverter(fileExt string) docsysSvc.ContentConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[strings.ToLower(fileExt)]
}

// Convert automatically selects the appropriate converter based on file extension
// and performs the conversion.
//
// Returns an error if no converter is registered for the file type or if conversion fails.
func (r *ConverterRegistry) Convert(ctx context.Context, filename string, content []byte) (string, error) {
	return r.ConvertFile(ctx, filename, "", content)
}

// ConvertFile is Convert with a MIME type fallback for extensionless names.
func (r *ConverterRegistry) ConvertFile(ctx context.Context, filename, mimeType string, content []byte) (string, error) {
	ext := filepath.Ext(filename)
	converter := r.GetConverter(ext)
	if converter == nil {
		ext = ExtensionForMimeType(mimeType)
		converter = r.GetConverter(ext)
	}

	if converter == nil {
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	return converter.Convert(ctx, content)
}

// ExtensionForMimeType maps the MIME types listed as candidates to a registry extension.
func ExtensionForMimeType(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])) {
	case "text/markdown", "text/x-markdown":
		return ".md"
	case "text/plain":
		return ".txt"
	case "text/html":
		return ".html"
	default:
		return ""
	}
}

// SupportedExtensions returns all registered file extensions.
func (r *ConverterRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.converters))
	for ext := range r.converters {
		exts = append(exts, ext)
	}
	return exts
}
