package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

func strPtr(s string) *string { return &s }

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
	uploads []domain.Upload
	err     error
}

func (m *mockIngestService) Ingest(_ context.Context, upload domain.Upload) (*domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.uploads = append(m.uploads, upload)
	return &domain.IngestResult{
		Metadata: domain.MetadataRecord{
			StoredName:   "stored-" + upload.OriginalName,
			OriginalName: upload.OriginalName,
			Title:        strPtr("Relatório Anual"),
			PageCount:    1,
			FullText:     string(upload.Content),
		},
		Similarities: []domain.SimilarityMatch{
			{Document: "relatorio-2023.pdf", Similarity: "66.67%", Score: 0.6667},
		},
	}, nil
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error

	setProvider domain.AIProvider
	setModel    string
	setAPIKey   string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetClassifier(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return errors.New("invalid provider")
	}
	m.setProvider = provider
	m.setModel = model
	m.setAPIKey = apiKey
	m.settings.Classifier.Provider = provider
	m.settings.Classifier.Model = model
	m.settings.Classifier.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateClassifierConfig() error {
	return m.pingErr
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	retrieval *mockRetrievalService
	ingest    *mockIngestService
	settings  *mockSettingsService
}

// setupTestServices installs mocks in place of the bootstrapped services and
// returns a function restoring the previous state.
func setupTestServices() (*testServices, func()) {
	oldSettings, oldIngest, oldRetrieval := settingsService, ingestService, retrievalService
	oldAppSettings, oldReady := appSettings, servicesReady

	defaults := domain.DefaultAppSettings()
	defaults.Classifier.APIKey = "sk-or-v1-0123456789abcdef"

	ts := &testServices{
		retrieval: &mockRetrievalService{
			records: []domain.MetadataRecord{
				{
					StoredName:   "a1.pdf",
					OriginalName: "contrato.pdf",
					Title:        strPtr("Contrato de Locação"),
					Type:         strPtr("contrato"),
					Summary:      strPtr("Locação de imóvel comercial."),
					Tags:         []string{"locação", "imóvel"},
					PageCount:    3,
					SizeKiB:      12.5,
					FullText:     "contrato de locação entre Acme Corp e locatário",
				},
				{
					StoredName:   "b2.txt",
					OriginalName: "notas.txt",
					PageCount:    1,
					FullText:     "notas de reunião",
				},
			},
		},
		ingest:   &mockIngestService{},
		settings: &mockSettingsService{settings: defaults},
	}

	settingsService = ts.settings
	ingestService = ts.ingest
	retrievalService = ts.retrieval
	appSettings = nil
	servicesReady = true

	return ts, func() {
		settingsService, ingestService, retrievalService = oldSettings, oldIngest, oldRetrieval
		appSettings, servicesReady = oldAppSettings, oldReady
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

func resetFlags() {
	searchJSON = false
	searchLimit = 10
	listJSON = false
	showText = false
	ingestJSON = false
	mcpReadOnly = false
	mcpAllowIngest = false
	mcpIngestRoot = ""
	mcpHost = defaultMCPHost
	serveAddr = ""
	dataDir = ""
	logFormat = ""
	verbose = false
}
