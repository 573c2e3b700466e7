package services

import (
	"fmt"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// BuildRecord assembles the metadata record for an upload.
//
// The author comes from the classification when it names one, otherwise from
// the document properties. Every other descriptive field comes only from the
// classification. A nil classification is a failed classification: no record
// is built.
func BuildRecord(
	upload domain.UploadFacts,
	facts domain.ExtractionResult,
	cls *domain.Classification,
) (domain.MetadataRecord, error) {
	if cls == nil {
		return domain.MetadataRecord{}, fmt.Errorf("build record for %s: %w",
			upload.OriginalName, domain.ErrClassificationUnavailable)
	}

	author := cls.Author
	if author == nil {
		author = facts.Author
	}

	tags := append([]string{}, cls.Tags...)

	record := domain.MetadataRecord{
		StoredName:   upload.StoredName,
		OriginalName: upload.OriginalName,
		Title:        cls.Title,
		Author:       author,
		CreatedAt:    ParseDocumentDate(facts.CreatedAt),
		ModifiedAt:   ParseDocumentDate(facts.ModifiedAt),
		PageCount:    max(facts.PageCount, 0),
		Type:         cls.Type,
		IssuingBody:  cls.IssuingBody,
		Summary:      cls.Summary,
		FullText:     Sanitize(facts.Text),
		SizeKiB:      float64(upload.SizeBytes) / 1024,
		Language:     cls.Language,
		Tags:         tags,
	}

	if err := record.Validate(); err != nil {
		return domain.MetadataRecord{}, err
	}
	return record, nil
}

// ParseDocumentDate converts a "D:YYYYMMDDHHmmSS" timestamp to ISO-8601 UTC.
//
// Hour, minute and second default to "00" when absent. Anything after the
// seconds, such as a timezone suffix, is ignored. Input that is not "D:"
// followed by at least eight digits yields nil.
func ParseDocumentDate(raw string) *string {
	const prefix = "D:"
	if len(raw) < len(prefix)+8 || raw[:len(prefix)] != prefix {
		return nil
	}
	digits := raw[len(prefix):]
	if !allDigits(digits[:8]) {
		return nil
	}

	clock := [3]string{"00", "00", "00"}
	for i := range clock {
		from := 8 + 2*i
		if len(digits) < from+2 || !allDigits(digits[from:from+2]) {
			break
		}
		clock[i] = digits[from : from+2]
	}

	out := fmt.Sprintf("%s-%s-%sT%s:%s:%sZ",
		digits[0:4], digits[4:6], digits[6:8],
		clock[0], clock[1], clock[2])
	return &out
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
