// Package sqlite provides a SQLite-backed corpus store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Records are inserted one row per
// append instead of rewriting a whole file, which suits corpora too large for
// the JSON backend. The collection is hydrated into memory at open, so reads
// and keyword search never touch the database.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Thread Safety
//
// All operations are thread-safe. Appends are serialised by the store and the
// database runs in WAL mode.
package sqlite
