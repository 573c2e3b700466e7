// Package uploads keeps the raw bytes of ingested documents on disk.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.UploadStore = (*Store)(nil)

// Store writes each upload to <dir>/<stored name>.
type Store struct {
	dir    string
	closed atomic.Bool
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Close stops the store. Later Save and Remove calls fail with
// domain.ErrStoreClosed.
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

// Save writes content under storedName. Existing files are never replaced.
func (s *Store) Save(_ context.Context, storedName string, content []byte) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}
	path, err := s.pathFor(storedName)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: upload %q", domain.ErrAlreadyExists, storedName)
		}
		return fmt.Errorf("create upload: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write upload: %w", err)
	}
	return f.Close()
}

// Remove deletes a stored upload. Missing files are not an error.
func (s *Store) Remove(_ context.Context, storedName string) error {
	if s.closed.Load() {
		return domain.ErrStoreClosed
	}
	path, err := s.pathFor(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// pathFor rejects names that would escape the upload directory.
func (s *Store) pathFor(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) ||
		strings.ContainsAny(storedName, `/\`) || storedName == "." || storedName == ".." {
		return "", fmt.Errorf("%w: stored name %q", domain.ErrInvalidInput, storedName)
	}
	return filepath.Join(s.dir, storedName), nil
}
