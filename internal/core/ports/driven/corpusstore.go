package driven

import (
	"context"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// CorpusStore owns the collection of metadata records.
// The in-memory collection is authoritative; persisted state mirrors it.
// Implementations must be safe for concurrent use.
type CorpusStore interface {
	// Load (re)hydrates the collection from persisted state.
	// Missing state yields an empty corpus; unparseable state returns
	// an error wrapping domain.ErrPersistedStateCorrupt.
	Load(ctx context.Context) ([]domain.MetadataRecord, error)

	// Append adds a record and persists the whole collection.
	// A duplicate stored name returns domain.ErrAlreadyExists and changes nothing.
	// A persistence failure returns domain.ErrStoreIO; the in-memory append is kept.
	Append(ctx context.Context, record domain.MetadataRecord) error

	// All returns a snapshot of the collection in insertion order.
	All(ctx context.Context) ([]domain.MetadataRecord, error)

	// Count returns the number of records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// UploadStore keeps the raw bytes of accepted uploads.
type UploadStore interface {
	// Save writes content under the given stored name.
	Save(ctx context.Context, storedName string, content []byte) error

	// Remove deletes a stored upload. Missing files are not an error.
	Remove(ctx context.Context, storedName string) error
}
