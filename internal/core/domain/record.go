package domain

import (
	"encoding/json"
	"fmt"
)

// MetadataRecord is one ingested document as held by the corpus store.
// Records are immutable once appended.
//
// JSON keys match the persisted corpus file so existing files load unchanged.
type MetadataRecord struct {
	// StoredName is the generated unique name the upload was saved under.
	StoredName string `json:"filename"`

	// OriginalName is the filename supplied by the client.
	OriginalName string `json:"originalname"`

	Title      *string `json:"title"`
	Author     *string `json:"author"`
	CreatedAt  *string `json:"createdAt"`
	ModifiedAt *string `json:"modifiedAt"`

	// PageCount is the number of pages reported by the extractor.
	PageCount int `json:"pages"`

	Type        *string `json:"type"`
	IssuingBody *string `json:"issuing_body"`
	Summary     *string `json:"summary"`

	// FullText is the sanitized extracted text.
	FullText string `json:"fulltext"`

	// SizeKiB is the upload size in kibibytes.
	SizeKiB float64 `json:"size"`

	Language *string  `json:"language"`
	Tags     []string `json:"tags"`
}

// MarshalJSON writes tags as an empty array rather than null.
func (r MetadataRecord) MarshalJSON() ([]byte, error) {
	type plain MetadataRecord
	p := plain(r)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return json.Marshal(p)
}

// Validate checks the record invariants that do not depend on the rest of the corpus.
func (r MetadataRecord) Validate() error {
	if r.StoredName == "" {
		return fmt.Errorf("%w: stored name is required", ErrInvalidInput)
	}
	if r.PageCount < 0 {
		return fmt.Errorf("%w: page count %d is negative", ErrInvalidInput, r.PageCount)
	}
	if r.SizeKiB < 0 {
		return fmt.Errorf("%w: size %.2f is negative", ErrInvalidInput, r.SizeKiB)
	}
	return nil
}

// SearchableText returns every non-null string field, fulltext included.
// Numeric fields and tags are not part of keyword search.
func (r MetadataRecord) SearchableText() []string {
	fields := []string{r.StoredName, r.OriginalName, r.FullText}
	for _, p := range []*string{
		r.Title, r.Author, r.CreatedAt, r.ModifiedAt,
		r.Type, r.IssuingBody, r.Summary, r.Language,
	} {
		if p != nil {
			fields = append(fields, *p)
		}
	}
	return fields
}

// ListView returns a copy whose fulltext is cut to at most maxRunes runes.
// A non-positive maxRunes leaves the text untouched.
func (r MetadataRecord) ListView(maxRunes int) MetadataRecord {
	out := r
	out.Tags = append([]string(nil), r.Tags...)
	if maxRunes <= 0 {
		return out
	}
	runes := []rune(r.FullText)
	if len(runes) > maxRunes {
		out.FullText = string(runes[:maxRunes])
	}
	return out
}
