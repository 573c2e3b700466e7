package httpapi

import (
	"github.com/custodia-labs/docintake/internal/core/ports/driving"
)

// Ports aggregates the driving ports the HTTP server needs.
type Ports struct {
	// Ingest runs uploads through the pipeline.
	Ingest driving.IngestService

	// Retrieval answers search and listing requests.
	Retrieval driving.RetrievalService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
