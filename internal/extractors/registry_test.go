package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

type stubExtractor struct {
	name string
	mime []string
	exts []string
}

func (s *stubExtractor) Name() string                  { return s.name }
func (s *stubExtractor) SupportedMIMETypes() []string  { return s.mime }
func (s *stubExtractor) SupportedExtensions() []string { return s.exts }
func (s *stubExtractor) Extract(context.Context, []byte) (*domain.ExtractionResult, error) {
	return &domain.ExtractionResult{}, nil
}

func newTestRegistry() *Registry {
	return NewRegistry(
		&stubExtractor{name: "pdf", mime: []string{"application/pdf"}, exts: []string{".pdf"}},
		&stubExtractor{name: "text", mime: []string{"text/plain"}, exts: []string{".txt"}},
	)
}

func TestRegistry_For(t *testing.T) {
	tests := []struct {
		name   string
		upload domain.Upload
		want   string
	}{
		{"by mime", domain.Upload{OriginalName: "a.bin", MIMEType: "application/pdf"}, "pdf"},
		{"mime with params", domain.Upload{OriginalName: "a", MIMEType: "text/plain; charset=utf-8"}, "text"},
		{"octet stream uses extension", domain.Upload{OriginalName: "a.PDF", MIMEType: "application/octet-stream"}, "pdf"},
		{"no mime uses extension", domain.Upload{OriginalName: "notes.txt"}, "text"},
		{"unknown mime uses extension", domain.Upload{OriginalName: "a.pdf", MIMEType: "application/x-foo"}, "pdf"},
	}

	r := newTestRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := r.For(tt.upload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Name())
		})
	}
}

func TestRegistry_For_Unsupported(t *testing.T) {
	_, err := newTestRegistry().For(domain.Upload{OriginalName: "photo.png", MIMEType: "image/png"})

	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	r := newTestRegistry()
	r.Register(&stubExtractor{name: "pdf2", exts: []string{".pdf"}})

	e, err := r.For(domain.Upload{OriginalName: "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "pdf2", e.Name())
}

func TestRegistry_Names(t *testing.T) {
	assert.ElementsMatch(t, []string{"pdf", "text"}, newTestRegistry().Names())
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	for name, want := range map[string]string{
		"relatorio.pdf": "pdf",
		"contrato.docx": "docx",
		"planilha.xlsx": "xlsx",
		"pagina.html":   "html",
		"notas.txt":     "plaintext",
	} {
		e, err := r.For(domain.Upload{OriginalName: name})
		require.NoError(t, err, name)
		assert.Equal(t, want, e.Name(), name)
	}
}
