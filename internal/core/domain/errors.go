package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, backend or document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Pipeline Errors.

	// ErrExtraction indicates the extractor could not read the submitted document.
	ErrExtraction = errors.New("document extraction failed")

	// ErrClassificationUnavailable is the single failure signal of the classifier.
	// It covers transport errors, timeouts and unparseable responses alike.
	ErrClassificationUnavailable = errors.New("classification unavailable")

	// Store Errors.

	// ErrStoreIO indicates the corpus could not be written to persistent storage.
	// The in-memory collection may be ahead of the persisted mirror.
	ErrStoreIO = errors.New("corpus store I/O failure")

	// ErrPersistedStateCorrupt indicates the persisted corpus could not be parsed.
	ErrPersistedStateCorrupt = errors.New("persisted corpus is corrupt")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("corpus store closed")
)
