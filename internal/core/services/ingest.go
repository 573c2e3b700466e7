package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
	"github.com/custodia-labs/docintake/internal/core/ports/driving"
	"github.com/custodia-labs/docintake/internal/logger"
	"github.com/custodia-labs/docintake/internal/metrics"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs uploads through extraction, similarity scoring,
// classification and record building, then appends the record.
//
// No store lock is held during the classification round trip: the similarity
// snapshot is taken before it, and the append happens after it. Two concurrent
// ingestions therefore do not score against each other.
type IngestService struct {
	extractors driven.ExtractorRegistry
	classifier driven.Classifier
	store      driven.CorpusStore
	uploads    driven.UploadStore
	metrics    *metrics.Metrics

	topK            int
	classifyTimeout time.Duration
	storedName      func(ext string) string
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithTopK sets how many similar documents are reported.
func WithTopK(k int) IngestOption {
	return func(s *IngestService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithClassifyTimeout bounds each classification call.
func WithClassifyTimeout(d time.Duration) IngestOption {
	return func(s *IngestService) {
		if d > 0 {
			s.classifyTimeout = d
		}
	}
}

// WithMetrics records pipeline metrics.
func WithMetrics(m *metrics.Metrics) IngestOption {
	return func(s *IngestService) {
		s.metrics = m
	}
}

// WithStoredNameFunc replaces the stored-name generator.
func WithStoredNameFunc(fn func(ext string) string) IngestOption {
	return func(s *IngestService) {
		if fn != nil {
			s.storedName = fn
		}
	}
}

// NewIngestService creates a new ingest service.
// The uploads parameter is optional (can be nil); raw bytes are then not kept.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	classifier driven.Classifier,
	store driven.CorpusStore,
	uploads driven.UploadStore,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		extractors:      extractors,
		classifier:      classifier,
		store:           store,
		uploads:         uploads,
		topK:            domain.DefaultTopK,
		classifyTimeout: domain.DefaultClassifierTimeout,
		storedName:      randomStoredName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomStoredName(ext string) string {
	return uuid.NewString() + ext
}

// Ingest processes one upload. Nothing is appended when any step fails.
func (s *IngestService) Ingest(ctx context.Context, upload domain.Upload) (*domain.IngestResult, error) {
	logger.Section("Ingest")

	if upload.OriginalName == "" {
		return nil, fmt.Errorf("%w: upload has no filename", domain.ErrInvalidInput)
	}
	logger.Debug("Upload: %s (%d bytes, %q)", upload.OriginalName, upload.Size(), upload.MIMEType)

	facts, err := s.extract(ctx, upload)
	if err != nil {
		s.metrics.RecordIngestion(metrics.OutcomeExtractionFailed)
		return nil, err
	}

	text := Sanitize(facts.Text)
	logger.Debug("Extracted %d pages, %d characters after sanitizing", facts.PageCount, len(text))

	corpus, err := s.store.All(ctx)
	if err != nil {
		s.metrics.RecordIngestion(metrics.OutcomeStoreFailed)
		return nil, fmt.Errorf("snapshot corpus: %w", err)
	}
	similarities := TopSimilar(text, corpus, s.topK)
	logger.Debug("Scored against %d records, kept %d", len(corpus), len(similarities))

	cls, err := s.classify(ctx, text)
	if err != nil {
		s.metrics.RecordIngestion(metrics.OutcomeClassificationError)
		return nil, err
	}

	facts.Text = text
	record, err := BuildRecord(domain.UploadFacts{
		StoredName:   s.storedName(upload.StoredExtension()),
		OriginalName: upload.OriginalName,
		SizeBytes:    upload.Size(),
	}, *facts, cls)
	if err != nil {
		s.metrics.RecordIngestion(metrics.OutcomeInvalidRecord)
		return nil, err
	}

	if err := s.persist(ctx, record, upload.Content); err != nil {
		s.metrics.RecordIngestion(metrics.OutcomeStoreFailed)
		return nil, err
	}

	s.metrics.RecordIngestion(metrics.OutcomeOK)
	if n, err := s.store.Count(ctx); err == nil {
		s.metrics.SetCorpusRecords(n)
	}
	logger.Info("Ingested %s as %s", record.OriginalName, record.StoredName)

	return &domain.IngestResult{
		Metadata:     record,
		Similarities: similarities,
	}, nil
}

func (s *IngestService) extract(ctx context.Context, upload domain.Upload) (*domain.ExtractionResult, error) {
	extractor, err := s.extractors.For(upload)
	if err != nil {
		return nil, err
	}
	logger.Debug("Extractor: %s", extractor.Name())

	facts, err := extractor.Extract(ctx, upload.Content)
	if err != nil {
		if !errors.Is(err, domain.ErrExtraction) {
			err = fmt.Errorf("%w: %s: %w", domain.ErrExtraction, upload.OriginalName, err)
		}
		return nil, err
	}
	if facts == nil {
		return nil, fmt.Errorf("%w: %s: no result", domain.ErrExtraction, upload.OriginalName)
	}
	return facts, nil
}

func (s *IngestService) classify(ctx context.Context, text string) (*domain.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.classifyTimeout)
	defer cancel()

	start := time.Now()
	cls, err := s.classifier.Classify(ctx, text)
	s.metrics.ObserveClassification(time.Since(start))

	if err != nil {
		logger.Warn("Classification failed: %v", err)
		if !errors.Is(err, domain.ErrClassificationUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrClassificationUnavailable, err)
		}
		return nil, err
	}
	if cls == nil {
		return nil, domain.ErrClassificationUnavailable
	}
	return cls, nil
}

// persist saves the raw upload, then appends the record. A failed append that
// did not reach memory removes the saved upload again.
func (s *IngestService) persist(ctx context.Context, record domain.MetadataRecord, content []byte) error {
	if s.uploads != nil {
		if err := s.uploads.Save(ctx, record.StoredName, content); err != nil {
			return fmt.Errorf("%w: save upload: %w", domain.ErrStoreIO, err)
		}
	}

	err := s.store.Append(ctx, record)
	if err == nil {
		return nil
	}

	if s.uploads != nil && !errors.Is(err, domain.ErrStoreIO) {
		if rmErr := s.uploads.Remove(ctx, record.StoredName); rmErr != nil {
			logger.Warn("Failed to remove upload %s: %v", record.StoredName, rmErr)
		}
	}
	return fmt.Errorf("append record: %w", err)
}
