package domain

import (
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider used for classification.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOpenRouter is the OpenRouter gateway, spoken over the OpenAI wire format.
	AIProviderOpenRouter AIProvider = "openrouter"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderOpenRouter:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderOpenRouter
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOpenRouter:
		return "OpenRouter (cloud gateway)"
	default:
		return unknownDescription
	}
}

// TruncationPolicy decides which part of a long text is sent for classification.
type TruncationPolicy string

// Available truncation policies.
const (
	// TruncationHead sends the first TextLimit characters.
	TruncationHead TruncationPolicy = "head"

	// TruncationSkip drops the first TextLimit characters and sends the remainder.
	// It reproduces the behaviour of corpora built by the earlier service.
	TruncationSkip TruncationPolicy = "skip"
)

// IsValid returns true if the policy is recognised.
func (t TruncationPolicy) IsValid() bool {
	return t == TruncationHead || t == TruncationSkip
}

// ClassifierSettings holds classification service configuration.
type ClassifierSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty selects the provider default.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string

	// Timeout bounds a single classification round trip.
	Timeout time.Duration

	// TextLimit is the character budget applied by the truncation policy.
	TextLimit int

	// Truncation selects how TextLimit is applied.
	Truncation TruncationPolicy

	// RequestsPerMinute caps outbound calls. Zero disables the limit.
	RequestsPerMinute int
}

// IsConfigured returns true if the classifier provider is set up.
func (c ClassifierSettings) IsConfigured() bool {
	if !c.Provider.IsValid() {
		return false
	}
	if c.Provider.RequiresAPIKey() && c.APIKey == "" {
		return false
	}
	return true
}

// StoreBackend selects the corpus store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendJSON keeps the corpus in a single pretty-printed JSON file.
	StoreBackendJSON StoreBackend = "json"

	// StoreBackendSQLite keeps the corpus in a SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendMemory keeps the corpus in memory only.
	StoreBackendMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendJSON, StoreBackendSQLite, StoreBackendMemory:
		return true
	default:
		return false
	}
}

// StoreSettings holds corpus and upload storage configuration.
type StoreSettings struct {
	// Backend selects the corpus store.
	Backend StoreBackend

	// DataDir is the root directory for the corpus and uploaded files.
	DataDir string
}

// CorpusFile is the path of the JSON corpus file.
func (s StoreSettings) CorpusFile() string {
	return filepath.Join(s.DataDir, "metadata", "output.json")
}

// DatabaseFile is the path of the SQLite corpus database.
func (s StoreSettings) DatabaseFile() string {
	return filepath.Join(s.DataDir, "metadata", "corpus.db")
}

// UploadDir is the directory uploaded files are saved to.
func (s StoreSettings) UploadDir() string {
	return filepath.Join(s.DataDir, "upload")
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// BodyLimit caps request bodies, in echo's size notation (e.g. "32M").
	BodyLimit string

	// Metrics enables the /metrics endpoint.
	Metrics bool
}

// LogSettings holds logging configuration.
type LogSettings struct {
	// Format is "console" or "json".
	Format string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Classifier ClassifierSettings
	Store      StoreSettings
	Server     ServerSettings
	Log        LogSettings
}

// Default values.
const (
	DefaultTextLimit         = 4000
	DefaultClassifierTimeout = 60 * time.Second
	DefaultServerAddr        = ":3000"
	DefaultBodyLimit         = "32M"
)

// DefaultAppSettings returns settings with sensible defaults.
// The API key is left empty; it comes from the config file or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Classifier: ClassifierSettings{
			Provider:   AIProviderOpenRouter,
			Model:      DefaultLLMModels()[AIProviderOpenRouter],
			Timeout:    DefaultClassifierTimeout,
			TextLimit:  DefaultTextLimit,
			Truncation: TruncationHead,
		},
		Store: StoreSettings{
			Backend: StoreBackendJSON,
			DataDir: ".",
		},
		Server: ServerSettings{
			Addr:      DefaultServerAddr,
			BodyLimit: DefaultBodyLimit,
			Metrics:   true,
		},
		Log: LogSettings{
			Format: "console",
		},
	}
}

// AllLLMProviders returns providers that support classification.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenRouter,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:     "llama3.2",
		AIProviderOpenAI:     "gpt-4o-mini",
		AIProviderAnthropic:  "claude-3-5-sonnet-latest",
		AIProviderOpenRouter: "qwen/qwen3-coder:free",
	}
}

// DefaultBaseURLs returns the API endpoint used when BaseURL is empty.
func DefaultBaseURLs() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:     "http://localhost:11434",
		AIProviderOpenAI:     "https://api.openai.com/v1",
		AIProviderAnthropic:  "https://api.anthropic.com",
		AIProviderOpenRouter: "https://openrouter.ai/api/v1",
	}
}
