package driving

import (
	"context"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// RetrievalService provides keyword search and listing over the corpus.
type RetrievalService interface {
	// Search returns records with any string field containing query, case-insensitively.
	// An empty query returns every record.
	Search(ctx context.Context, query string) ([]domain.MetadataRecord, error)

	// List returns the whole corpus in insertion order.
	List(ctx context.Context) ([]domain.MetadataRecord, error)

	// Count returns the corpus size.
	Count(ctx context.Context) (int, error)
}
