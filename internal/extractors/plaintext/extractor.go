// Package plaintext extracts text from plain text uploads.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// utf8BOM is stripped from the start of the content.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string {
	return "plaintext"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/csv",
		"application/json",
		"application/xml",
		"text/xml",
	}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt", ".md", ".markdown", ".csv", ".json", ".xml", ".log"}
}

// Extract returns the content as text. Content that is not valid UTF-8
// is decoded as Windows-1252, the usual encoding of legacy Portuguese files
// and a superset of Latin-1's printable characters.
// Binary content, detected by NUL bytes, is rejected.
func (e *Extractor) Extract(_ context.Context, content []byte) (*domain.ExtractionResult, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if bytes.IndexByte(content, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content", domain.ErrExtraction)
	}

	text := string(content)
	if !utf8.Valid(content) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
		if err != nil {
			return nil, fmt.Errorf("%w: decode windows-1252: %w", domain.ErrExtraction, err)
		}
		text = string(decoded)
	}

	pages := 1
	if strings.TrimSpace(text) == "" {
		pages = 0
	}
	return &domain.ExtractionResult{Text: text, PageCount: pages}, nil
}
