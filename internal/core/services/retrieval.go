package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
	"github.com/custodia-labs/docintake/internal/core/ports/driving"
	"github.com/custodia-labs/docintake/internal/logger"
	"github.com/custodia-labs/docintake/internal/metrics"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// TopSimilar scores every record's fulltext against queryText and returns the
// k best matches, highest first. Ties keep corpus order.
func TopSimilar(queryText string, corpus []domain.MetadataRecord, k int) []domain.SimilarityMatch {
	if k <= 0 || len(corpus) == 0 {
		return []domain.SimilarityMatch{}
	}

	matches := make([]domain.SimilarityMatch, len(corpus))
	for i, rec := range corpus {
		score := Similarity(queryText, rec.FullText)
		matches[i] = domain.SimilarityMatch{
			Document:   rec.OriginalName,
			Similarity: FormatPercent(score),
			Score:      score,
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// FormatPercent renders a score in [0,1] as a percentage with two decimals.
func FormatPercent(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}

// MatchesQuery reports whether any searchable field contains the lowercase query.
func MatchesQuery(record domain.MetadataRecord, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	for _, field := range record.SearchableText() {
		if strings.Contains(strings.ToLower(field), lowerQuery) {
			return true
		}
	}
	return false
}

// RetrievalService provides keyword search and listing over the corpus.
type RetrievalService struct {
	store   driven.CorpusStore
	metrics *metrics.Metrics
}

// NewRetrievalService creates a new retrieval service.
// The metrics parameter is optional (can be nil).
func NewRetrievalService(store driven.CorpusStore, m *metrics.Metrics) *RetrievalService {
	return &RetrievalService{store: store, metrics: m}
}

// Search returns records with any string field containing query, case-insensitively.
func (s *RetrievalService) Search(ctx context.Context, query string) ([]domain.MetadataRecord, error) {
	logger.Section("Search")
	s.metrics.RecordSearch()

	records, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	q := strings.ToLower(query)
	logger.Debug("Query: %q over %d records", q, len(records))

	results := make([]domain.MetadataRecord, 0, len(records))
	for _, rec := range records {
		if MatchesQuery(rec, q) {
			results = append(results, rec)
		}
	}

	logger.Debug("Matched %d records", len(results))
	return results, nil
}

// List returns the whole corpus in insertion order.
func (s *RetrievalService) List(ctx context.Context) ([]domain.MetadataRecord, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return records, nil
}

// Count returns the corpus size.
func (s *RetrievalService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
