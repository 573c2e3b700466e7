// Package memory provides in-memory implementations of driven ports.
//
// CorpusStore is the authoritative collection behind every corpus backend:
// the file and database stores hydrate one and mirror its appends.
// ConfigStore backs settings in tests and one-off commands.
package memory
