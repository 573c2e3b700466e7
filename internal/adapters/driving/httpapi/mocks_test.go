package httpapi

import (
	"context"
	"sync"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

type mockIngestService struct {
	mu      sync.Mutex
	uploads []domain.Upload
	result  *domain.IngestResult
	err     error
}

func (m *mockIngestService) Ingest(_ context.Context, upload domain.Upload) (*domain.IngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, upload)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockRetrievalService struct {
	records   []domain.MetadataRecord
	lastQuery string
	err       error
}

func (m *mockRetrievalService) Search(_ context.Context, query string) ([]domain.MetadataRecord, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *mockRetrievalService) List(_ context.Context) ([]domain.MetadataRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *mockRetrievalService) Count(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.records), nil
}
