// Package docx extracts text and document properties from Office Open XML
// word processing files.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Parts of the package this extractor reads.
const (
	partDocument = "word/document.xml"
	partCore     = "docProps/core.xml"
	partApp      = "docProps/app.xml"
)

// maxPartSize bounds a single decompressed part.
const maxPartSize = 64 << 20

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string {
	return "docx"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".docx"}
}

// Extract reads the body text from word/document.xml and the author,
// dates and page count from the docProps parts.
func (e *Extractor) Extract(_ context.Context, content []byte) (*domain.ExtractionResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zip archive: %w", domain.ErrExtraction, err)
	}

	body, err := readPart(reader, partDocument)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	text, err := documentText(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtraction, partDocument, err)
	}

	result := &domain.ExtractionResult{Text: text}

	// Properties are optional; a document without them still extracts.
	if raw, err := readPart(reader, partCore); err == nil {
		applyCore(result, raw)
	}
	if raw, err := readPart(reader, partApp); err == nil {
		applyApp(result, raw)
	}
	if result.PageCount == 0 && text != "" {
		result.PageCount = 1
	}

	return result, nil
}

// errPartMissing is returned when a package part does not exist.
var errPartMissing = errors.New("part missing")

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s: %w", name, errPartMissing)
}

// documentText streams the document XML, emitting run text and turning
// paragraphs, breaks and tabs into whitespace. Table cells are included.
func documentText(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			case "tc":
				b.WriteByte('\t')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// coreXML represents the fields read from docProps/core.xml.
type coreXML struct {
	Creator  string `xml:"creator"`
	Created  string `xml:"created"`
	Modified string `xml:"modified"`
}

func applyCore(result *domain.ExtractionResult, raw []byte) {
	var core coreXML
	if err := xml.Unmarshal(raw, &core); err != nil {
		return
	}
	if author := strings.TrimSpace(core.Creator); author != "" {
		result.Author = &author
	}
	result.CreatedAt = w3cDate(core.Created)
	result.ModifiedAt = w3cDate(core.Modified)
}

// appXML represents the fields read from docProps/app.xml.
type appXML struct {
	Pages string `xml:"Pages"`
}

func applyApp(result *domain.ExtractionResult, raw []byte) {
	var app appXML
	if err := xml.Unmarshal(raw, &app); err != nil {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(app.Pages)); err == nil && n > 0 {
		result.PageCount = n
	}
}

// w3cDate converts a W3CDTF timestamp to the "D:" form.
func w3cDate(v string) string {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return domain.DocumentDate(t)
		}
	}
	return ""
}
