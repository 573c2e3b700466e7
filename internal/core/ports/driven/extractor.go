package driven

import (
	"context"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// Extractor recovers text and document facts from raw upload bytes.
// Malformed input fails with an error wrapping domain.ErrExtraction.
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string

	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// SupportedExtensions returns lowercase file extensions, including the dot.
	SupportedExtensions() []string

	// Extract reads the document.
	Extract(ctx context.Context, content []byte) (*domain.ExtractionResult, error)
}

// ExtractorRegistry selects the extractor for an upload.
type ExtractorRegistry interface {
	// Register adds an extractor. Later registrations win on conflicts.
	Register(e Extractor)

	// For returns the extractor for the upload's MIME type or extension.
	// Returns an error wrapping domain.ErrExtraction if none applies.
	For(upload domain.Upload) (Extractor, error)
}
