package extractors

import (
	"github.com/custodia-labs/docintake/internal/extractors/docx"
	"github.com/custodia-labs/docintake/internal/extractors/html"
	"github.com/custodia-labs/docintake/internal/extractors/pdf"
	"github.com/custodia-labs/docintake/internal/extractors/plaintext"
	"github.com/custodia-labs/docintake/internal/extractors/xlsx"
	"github.com/custodia-labs/docintake/internal/logger"
)

// NewDefaultRegistry registers every built-in extractor.
// A missing pdftotext is logged; PDF uploads then fail with an extraction error.
func NewDefaultRegistry() *Registry {
	if err := pdf.CheckAvailable(); err != nil {
		logger.Warn("%v: PDF uploads will be rejected", err)
	}
	return NewRegistry(
		plaintext.New(),
		html.New(),
		pdf.New(),
		docx.New(),
		xlsx.New(),
	)
}
