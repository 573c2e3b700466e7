// Package xlsx extracts cell text and document properties from spreadsheets.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
	"github.com/custodia-labs/docintake/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles XLSX workbooks. Each sheet counts as one page.
type Extractor struct{}

// New creates a new XLSX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string {
	return "xlsx"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-excel.sheet.macroenabled.12",
	}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Extract renders every sheet as tab-separated rows, prefixed by the sheet name.
func (e *Extractor) Extract(ctx context.Context, content []byte) (*domain.ExtractionResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", domain.ErrExtraction, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var b strings.Builder
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %q: %w", domain.ErrExtraction, sheet, err)
		}
		b.WriteString(sheet)
		b.WriteByte('\n')
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t")
			if line == "" {
				continue
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	result := &domain.ExtractionResult{
		Text:      strings.TrimSpace(b.String()),
		PageCount: len(sheets),
	}

	props, err := f.GetDocProps()
	if err != nil {
		logger.Debug("xlsx: document properties unavailable: %v", err)
		return result, nil
	}
	if author := strings.TrimSpace(props.Creator); author != "" {
		result.Author = &author
	}
	result.CreatedAt = w3cDate(props.Created)
	result.ModifiedAt = w3cDate(props.Modified)

	return result, nil
}

// w3cDate converts a W3CDTF timestamp to the "D:" form.
func w3cDate(v string) string {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
	if err != nil {
		return ""
	}
	return domain.DocumentDate(t)
}
