package extractors

import (
	"fmt"
	"mime"
	"strings"
	"sync"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// genericMIMETypes carry no format information; the extension decides instead.
var genericMIMETypes = map[string]bool{
	"":                         true,
	"application/octet-stream": true,
	"binary/octet-stream":      true,
}

// Registry selects an extractor by declared MIME type, then by file extension.
type Registry struct {
	mu          sync.RWMutex
	byMIME      map[string]driven.Extractor
	byExtension map[string]driven.Extractor
}

// NewRegistry creates a registry holding the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{
		byMIME:      make(map[string]driven.Extractor),
		byExtension: make(map[string]driven.Extractor),
	}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor. Later registrations win on conflicts.
func (r *Registry) Register(e driven.Extractor) {
	if e == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range e.SupportedMIMETypes() {
		r.byMIME[strings.ToLower(m)] = e
	}
	for _, ext := range e.SupportedExtensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
}

// For returns the extractor for the upload.
func (r *Registry) For(upload domain.Upload) (driven.Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mimeType := normaliseMIME(upload.MIMEType)
	if !genericMIMETypes[mimeType] {
		if e, ok := r.byMIME[mimeType]; ok {
			return e, nil
		}
	}
	if e, ok := r.byExtension[upload.Extension()]; ok {
		return e, nil
	}

	return nil, fmt.Errorf("%w: %w: %q (%s)",
		domain.ErrExtraction, domain.ErrUnsupportedType, upload.OriginalName, upload.MIMEType)
}

// Names lists the registered extractors, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string
	for _, e := range r.byExtension {
		if !seen[e.Name()] {
			seen[e.Name()] = true
			names = append(names, e.Name())
		}
	}
	for _, e := range r.byMIME {
		if !seen[e.Name()] {
			seen[e.Name()] = true
			names = append(names, e.Name())
		}
	}
	return names
}

// normaliseMIME strips parameters such as charset and lowercases the type.
func normaliseMIME(v string) string {
	if v == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return mediaType
}
