package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory, append-only collection of metadata records.
type CorpusStore struct {
	mu      sync.RWMutex
	records []domain.MetadataRecord
	names   map[string]struct{}
	closed  bool
}

// NewCorpusStore creates an empty in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{
		names: make(map[string]struct{}),
	}
}

// Load returns the current collection. There is no persisted state to read.
func (s *CorpusStore) Load(ctx context.Context) ([]domain.MetadataRecord, error) {
	return s.All(ctx)
}

// Replace swaps the whole collection, as done when hydrating from disk.
// Duplicate stored names are rejected and leave the collection unchanged.
func (s *CorpusStore) Replace(records []domain.MetadataRecord) error {
	names := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := names[r.StoredName]; dup {
			return fmt.Errorf("%w: stored name %q appears twice", domain.ErrAlreadyExists, r.StoredName)
		}
		names[r.StoredName] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	s.records = cloneRecords(records)
	s.names = names
	return nil
}

// Append adds a record to the end of the collection.
func (s *CorpusStore) Append(_ context.Context, record domain.MetadataRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	if _, dup := s.names[record.StoredName]; dup {
		return fmt.Errorf("%w: stored name %q", domain.ErrAlreadyExists, record.StoredName)
	}

	s.records = append(s.records, cloneRecord(record))
	s.names[record.StoredName] = struct{}{}
	return nil
}

// Contains reports whether a stored name is already taken.
func (s *CorpusStore) Contains(storedName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[storedName]
	return ok
}

// All returns a snapshot of the collection in insertion order.
func (s *CorpusStore) All(_ context.Context) ([]domain.MetadataRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	return cloneRecords(s.records), nil
}

// Count returns the number of records.
func (s *CorpusStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, domain.ErrStoreClosed
	}
	return len(s.records), nil
}

// Close marks the store closed. Further calls fail with domain.ErrStoreClosed.
func (s *CorpusStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// cloneRecords copies records so callers cannot mutate the collection.
// Pointer fields are shared; their targets are never written after append.
func cloneRecords(records []domain.MetadataRecord) []domain.MetadataRecord {
	out := make([]domain.MetadataRecord, len(records))
	for i, r := range records {
		out[i] = cloneRecord(r)
	}
	return out
}

func cloneRecord(r domain.MetadataRecord) domain.MetadataRecord {
	r.Tags = append([]string{}, r.Tags...)
	return r
}
