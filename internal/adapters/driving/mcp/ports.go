package mcp

import (
	"github.com/custodia-labs/docintake/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval provides search and listing over the corpus.
	Retrieval driving.RetrievalService

	// Ingest runs local files through the pipeline. Optional; without it
	// the ingest_file tool is not registered.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
