package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docintake/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docintake/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
	"github.com/custodia-labs/docintake/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.CorpusStore = (*Store)(nil)

const recordColumns = `stored_name, original_name, title, author, created_at, modified_at,
	pages, type, issuing_body, summary, fulltext, size_kib, language, tags`

// Store is a SQLite-backed corpus store.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
	mem  *memory.CorpusStore
}

// NewStore opens (or creates) the database at path, applies migrations and
// hydrates the collection.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
		mem:  memory.NewCorpusStore(),
	}

	if err := s.migrate(ctx, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if _, err := s.Load(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	_ = s.mem.Close()
	return s.db.Close()
}

// Load re-reads every record from the database in insertion order.
func (s *Store) Load(ctx context.Context) ([]domain.MetadataRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("%w: query records: %w", domain.ErrStoreIO, err)
	}
	defer rows.Close()

	var records []domain.MetadataRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistedStateCorrupt, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %w", domain.ErrStoreIO, err)
	}

	if err := s.mem.Replace(records); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistedStateCorrupt, err)
	}

	logger.Debug("Loaded %d records from %s", len(records), s.path)
	return s.mem.All(ctx)
}

// Append adds a record to memory, then inserts its row. When the insert
// fails the record stays in memory and domain.ErrStoreIO is returned.
func (s *Store) Append(ctx context.Context, record domain.MetadataRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mem.Append(ctx, record); err != nil {
		return err
	}

	tags, err := json.Marshal(nonNilTags(record.Tags))
	if err != nil {
		return fmt.Errorf("%w: encode tags: %w", domain.ErrStoreIO, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.StoredName, record.OriginalName,
		nullString(record.Title), nullString(record.Author),
		nullString(record.CreatedAt), nullString(record.ModifiedAt),
		record.PageCount, nullString(record.Type), nullString(record.IssuingBody),
		nullString(record.Summary), record.FullText, record.SizeKiB,
		nullString(record.Language), string(tags),
	)
	if err != nil {
		logger.Error(err, "Database %s is behind memory by at least one record", s.path)
		return fmt.Errorf("%w: insert %s: %w", domain.ErrStoreIO, record.StoredName, err)
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

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(ctx context.Context, fsys fs.FS) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_records.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(ctx, version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}

	return nil
}

func (s *Store) applyMigration(ctx context.Context, version int, content string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, content); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func scanRecord(rows *sql.Rows) (domain.MetadataRecord, error) {
	var (
		rec                                   domain.MetadataRecord
		title, author, createdAt, modifiedAt  sql.NullString
		recordType, issuingBody, summary, lng sql.NullString
		tags                                  string
	)

	err := rows.Scan(
		&rec.StoredName, &rec.OriginalName, &title, &author, &createdAt, &modifiedAt,
		&rec.PageCount, &recordType, &issuingBody, &summary, &rec.FullText, &rec.SizeKiB,
		&lng, &tags,
	)
	if err != nil {
		return rec, fmt.Errorf("scan record: %w", err)
	}

	rec.Title = stringPtr(title)
	rec.Author = stringPtr(author)
	rec.CreatedAt = stringPtr(createdAt)
	rec.ModifiedAt = stringPtr(modifiedAt)
	rec.Type = stringPtr(recordType)
	rec.IssuingBody = stringPtr(issuingBody)
	rec.Summary = stringPtr(summary)
	rec.Language = stringPtr(lng)

	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return rec, fmt.Errorf("decode tags of %s: %w", rec.StoredName, err)
	}
	rec.Tags = nonNilTags(rec.Tags)

	return rec, nil
}

// nullString maps a nil pointer to SQL NULL.
func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
