package mcp

import (
	"context"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	records   []domain.MetadataRecord
	lastQuery string
	err       error
}

func (m *mockRetrievalService) Search(_ context.Context, query string) ([]domain.MetadataRecord, error) {
	m.lastQuery = query
	return m.records, m.err
}

func (m *mockRetrievalService) List(_ context.Context) ([]domain.MetadataRecord, error) {
	return m.records, m.err
}

func (m *mockRetrievalService) Count(_ context.Context) (int, error) {
	return len(m.records), m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	upload domain.Upload
	result *domain.IngestResult
	err    error
}

func (m *mockIngestService) Ingest(_ context.Context, upload domain.Upload) (*domain.IngestResult, error) {
	m.upload = upload
	return m.result, m.err
}
