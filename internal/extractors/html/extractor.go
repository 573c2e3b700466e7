// Package html extracts readable text from HTML pages using goquery.
package html

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Elements whose text is never part of the document.
const skipSelector = "script, style, noscript, template, svg, head"

// Elements after which a line break is emitted.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "hr": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "table": true, "section": true, "article": true,
	"header": true, "footer": true, "main": true, "td": true, "th": true,
}

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string {
	return "html"
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Extract returns the body text with block elements on separate lines.
// Author and dates come from the usual meta tags when present.
func (e *Extractor) Extract(_ context.Context, content []byte) (*domain.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", domain.ErrExtraction, err)
	}

	result := &domain.ExtractionResult{PageCount: 1}
	if author := metaContent(doc, "author", "dc.creator", "article:author"); author != "" {
		result.Author = &author
	}
	result.CreatedAt = isoDate(metaContent(doc, "dcterms.created", "article:published_time", "date"))
	result.ModifiedAt = isoDate(metaContent(doc, "dcterms.modified", "article:modified_time", "last-modified"))

	doc.Find(skipSelector).Remove()

	var b strings.Builder
	collectText(doc.Find("body").Contents(), &b)
	if b.Len() == 0 {
		// Fragments without a body element.
		collectText(doc.Contents(), &b)
	}
	result.Text = tidy(b.String())

	return result, nil
}

// collectText walks the selection depth first, writing text nodes and
// a newline after every block element.
func collectText(sel *goquery.Selection, b *strings.Builder) {
	sel.Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "#text" {
			b.WriteString(s.Text())
			return
		}
		collectText(s.Contents(), b)
		if blockElements[goquery.NodeName(s)] {
			b.WriteByte('\n')
		}
	})
}

// metaContent returns the first non-empty content of a meta tag matched by name or property.
func metaContent(doc *goquery.Document, names ...string) string {
	for _, name := range names {
		var found string
		doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			key, _ := s.Attr("name")
			if key == "" {
				key, _ = s.Attr("property")
			}
			if !strings.EqualFold(key, name) {
				return true
			}
			found = strings.TrimSpace(s.AttrOr("content", ""))
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// isoDate converts an ISO 8601 date or timestamp to the "D:" form.
func isoDate(v string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return domain.DocumentDate(t)
		}
	}
	return ""
}

// tidy trims every line and drops blank ones.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
