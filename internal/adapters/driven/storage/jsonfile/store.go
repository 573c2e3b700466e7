// Package jsonfile provides a corpus store persisted as one JSON file.
//
// The file holds a pretty-printed array of every record and is rewritten in
// full on each append, through a temporary file renamed over the original.
// This keeps the file readable by hand and suits corpora of hundreds to low
// thousands of records; larger corpora should use the sqlite backend.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/docintake/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
	"github.com/custodia-labs/docintake/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

// Store is a JSON-file backed corpus store.
type Store struct {
	// mu serialises append-and-rewrite so the file never lags a later append.
	mu   sync.Mutex
	path string
	mem  *memory.CorpusStore
}

// NewStore opens the corpus file at path, creating its directory if needed,
// and hydrates the collection. A missing file is an empty corpus.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create corpus directory: %w", err)
	}

	s := &Store{
		path: path,
		mem:  memory.NewCorpusStore(),
	}

	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the corpus file path.
func (s *Store) Path() string {
	return s.path
}

// Load re-reads the corpus file and replaces the in-memory collection.
func (s *Store) Load(ctx context.Context) ([]domain.MetadataRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := readRecords(s.path)
	if err != nil {
		return nil, err
	}

	if err := s.mem.Replace(records); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrPersistedStateCorrupt, s.path, err)
		}
		return nil, err
	}

	logger.Debug("Loaded %d records from %s", len(records), s.path)
	return s.mem.All(ctx)
}

// Append adds a record, then rewrites the file. When the rewrite fails the
// record stays in memory and domain.ErrStoreIO is returned.
func (s *Store) Append(ctx context.Context, record domain.MetadataRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.Append(ctx, record); err != nil {
		return err
	}

	records, err := s.mem.All(ctx)
	if err != nil {
		return err
	}

	if err := writeRecords(s.path, records); err != nil {
		logger.Error(err, "Corpus file %s is behind memory by at least one record", s.path)
		return fmt.Errorf("%w: %w", domain.ErrStoreIO, err)
	}
	return nil
}

// All returns a snapshot of the collection in insertion order.
func (s *Store) All(ctx context.Context) ([]domain.MetadataRecord, error) {
	return s.mem.All(ctx)
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.mem.Count(ctx)
}

// Close releases the in-memory collection.
func (s *Store) Close() error {
	return s.mem.Close()
}

func readRecords(path string) ([]domain.MetadataRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrStoreIO, path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []domain.MetadataRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrPersistedStateCorrupt, path, err)
	}
	return records, nil
}

// writeRecords replaces the file atomically: readers see either the old or
// the new array, never a partial one.
func writeRecords(path string, records []domain.MetadataRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
