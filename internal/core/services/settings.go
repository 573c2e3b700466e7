package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
	"github.com/custodia-labs/docintake/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyClassifierProvider   = "classifier.provider"
	keyClassifierModel      = "classifier.model"
	keyClassifierBaseURL    = "classifier.base_url"
	keyClassifierAPIKey     = "classifier.api_key"
	keyClassifierTimeout    = "classifier.timeout"
	keyClassifierTextLimit  = "classifier.text_limit"
	keyClassifierTruncation = "classifier.truncation"
	keyClassifierRPM        = "classifier.requests_per_minute"
	keyStoreBackend         = "store.backend"
	keyStoreDataDir         = "store.data_dir"
	keyServerAddr           = "server.addr"
	keyServerBodyLimit      = "server.body_limit"
	keyServerMetrics        = "server.metrics"
	keyLogFormat            = "log.format"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Classifier: domain.ClassifierSettings{
			Provider:          s.getProvider(defaults.Classifier.Provider),
			Model:             s.getString(keyClassifierModel, defaults.Classifier.Model),
			BaseURL:           s.configStore.GetString(keyClassifierBaseURL), // Empty selects the provider default
			APIKey:            s.configStore.GetString(keyClassifierAPIKey),
			Timeout:           s.getDuration(keyClassifierTimeout, defaults.Classifier.Timeout),
			TextLimit:         s.getInt(keyClassifierTextLimit, defaults.Classifier.TextLimit),
			Truncation:        s.getTruncation(defaults.Classifier.Truncation),
			RequestsPerMinute: s.configStore.GetInt(keyClassifierRPM),
		},
		Store: domain.StoreSettings{
			Backend: s.getBackend(defaults.Store.Backend),
			DataDir: s.getString(keyStoreDataDir, defaults.Store.DataDir),
		},
		Server: domain.ServerSettings{
			Addr:      s.getString(keyServerAddr, defaults.Server.Addr),
			BodyLimit: s.getString(keyServerBodyLimit, defaults.Server.BodyLimit),
			Metrics:   s.getBool(keyServerMetrics, defaults.Server.Metrics),
		},
		Log: domain.LogSettings{
			Format: s.getString(keyLogFormat, defaults.Log.Format),
		},
	}

	// An unset model follows the selected provider.
	if _, exists := s.configStore.Get(keyClassifierModel); !exists {
		if model, ok := domain.DefaultLLMModels()[settings.Classifier.Provider]; ok {
			settings.Classifier.Model = model
		}
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyClassifierProvider, settings.Classifier.Provider.String()},
		{keyClassifierModel, settings.Classifier.Model},
		{keyClassifierBaseURL, settings.Classifier.BaseURL},
		{keyClassifierTimeout, settings.Classifier.Timeout.String()},
		{keyClassifierTextLimit, settings.Classifier.TextLimit},
		{keyClassifierTruncation, string(settings.Classifier.Truncation)},
		{keyClassifierRPM, settings.Classifier.RequestsPerMinute},
		{keyStoreBackend, string(settings.Store.Backend)},
		{keyStoreDataDir, settings.Store.DataDir},
		{keyServerAddr, settings.Server.Addr},
		{keyServerBodyLimit, settings.Server.BodyLimit},
		{keyServerMetrics, settings.Server.Metrics},
		{keyLogFormat, settings.Log.Format},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Classifier.APIKey != "" {
		if err := s.configStore.Set(keyClassifierAPIKey, settings.Classifier.APIKey); err != nil {
			return fmt.Errorf("save classifier api_key: %w", err)
		}
	}

	return s.configStore.Save()
}

// SetClassifier configures the classification provider.
func (s *SettingsService) SetClassifier(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid classifier provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Classifier.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Classifier.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.Classifier.Model = defaultModel
	}

	// Local providers keep a custom base URL; cloud providers use their default
	if provider.IsLocal() {
		if settings.Classifier.BaseURL == "" {
			settings.Classifier.BaseURL = domain.DefaultBaseURLs()[provider]
		}
	} else {
		settings.Classifier.BaseURL = ""
	}

	settings.Classifier.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(settings)
}

// ValidateSettings checks a settings value without touching storage.
func ValidateSettings(settings *domain.AppSettings) error {
	if !settings.Classifier.IsConfigured() {
		return fmt.Errorf("%w: classifier provider %q is not configured (missing API key?)",
			domain.ErrLLMUnavailable, settings.Classifier.Provider)
	}
	if settings.Classifier.TextLimit <= 0 {
		return fmt.Errorf("%w: classifier text limit must be positive", domain.ErrInvalidInput)
	}
	if !settings.Classifier.Truncation.IsValid() {
		return fmt.Errorf("%w: unknown truncation policy %q", domain.ErrInvalidInput, settings.Classifier.Truncation)
	}
	if !settings.Store.Backend.IsValid() {
		return fmt.Errorf("%w: unknown store backend %q", domain.ErrUnsupportedType, settings.Store.Backend)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateClassifierConfig validates the current classifier configuration by pinging the provider.
func (s *SettingsService) ValidateClassifierConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateClassifier(&settings.Classifier)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyClassifierProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getTruncation(defaultVal domain.TruncationPolicy) domain.TruncationPolicy {
	policy := domain.TruncationPolicy(s.configStore.GetString(keyClassifierTruncation))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	backend := domain.StoreBackend(s.configStore.GetString(keyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
