package driving

import (
	"context"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// IngestService runs the ingestion pipeline for one upload.
type IngestService interface {
	// Ingest extracts, scores, classifies, builds and appends a record.
	// Nothing is appended on failure.
	Ingest(ctx context.Context, upload domain.Upload) (*domain.IngestResult, error)
}
