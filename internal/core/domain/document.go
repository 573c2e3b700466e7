package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Upload is a document submitted for ingestion.
type Upload struct {
	// OriginalName is the filename supplied by the client.
	OriginalName string

	// MIMEType is the content type declared by the client, if any.
	MIMEType string

	// Content is the raw document bytes.
	Content []byte
}

// Extension returns the lowercase extension of the original filename, including the dot.
func (u Upload) Extension() string {
	return strings.ToLower(filepath.Ext(u.OriginalName))
}

// maxStoredExtension bounds the extension length, dot excluded, kept in stored names.
const maxStoredExtension = 10

// StoredExtension is the extension carried into the generated stored name.
// It is Extension restricted to ASCII letters and digits; anything else, or
// anything longer than maxStoredExtension, yields "".
func (u Upload) StoredExtension() string {
	ext := strings.TrimPrefix(u.Extension(), ".")
	if ext == "" || len(ext) > maxStoredExtension {
		return ""
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return "." + ext
}

// Size returns the content length in bytes.
func (u Upload) Size() int64 {
	return int64(len(u.Content))
}

// UploadFacts are the upload attributes the record builder needs.
type UploadFacts struct {
	// StoredName is the generated, unique name the upload is stored under.
	StoredName string

	// OriginalName is the filename supplied by the client.
	OriginalName string

	// SizeBytes is the content length in bytes.
	SizeBytes int64
}

// ExtractionResult is what a document extractor recovers from raw bytes.
type ExtractionResult struct {
	// Text is the raw extracted text, not yet sanitized.
	Text string

	// PageCount is the number of pages, sheets or logical parts. Never negative.
	PageCount int

	// CreatedAt is the creation timestamp in the extractor's native
	// "D:YYYYMMDDHHmmSS" form, or empty when unknown.
	CreatedAt string

	// ModifiedAt is the modification timestamp in the same form as CreatedAt.
	ModifiedAt string

	// Author is the author recorded in the document properties, if any.
	Author *string
}

// Classification is the structured description returned by the classification service.
// Every field is optional.
type Classification struct {
	Title       *string
	Author      *string
	Type        *string
	IssuingBody *string
	Summary     *string
	Language    *string
	Tags        []string
}

// documentDateLayout is the "D:YYYYMMDDHHmmSS" form shared by extractors.
const documentDateLayout = "D:20060102150405"

// DocumentDate formats t in the extractor-native form, in UTC.
// The zero time yields an empty string.
func DocumentDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(documentDateLayout)
}
