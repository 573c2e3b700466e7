package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		provider AIProvider
		expected bool
	}{
		{AIProviderOllama, true},
		{AIProviderOpenAI, true},
		{AIProviderAnthropic, true},
		{AIProviderOpenRouter, true},
		{AIProvider(""), false},
		{AIProvider("cohere"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.True(t, AIProviderOpenRouter.RequiresAPIKey())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "OpenRouter (cloud gateway)", AIProviderOpenRouter.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestClassifierSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings ClassifierSettings
		expected bool
	}{
		{"ollama without key", ClassifierSettings{Provider: AIProviderOllama}, true},
		{"openrouter without key", ClassifierSettings{Provider: AIProviderOpenRouter}, false},
		{"openrouter with key", ClassifierSettings{Provider: AIProviderOpenRouter, APIKey: "k"}, true},
		{"unknown provider", ClassifierSettings{Provider: "x", APIKey: "k"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestTruncationPolicy_IsValid(t *testing.T) {
	assert.True(t, TruncationHead.IsValid())
	assert.True(t, TruncationSkip.IsValid())
	assert.False(t, TruncationPolicy("tail").IsValid())
}

func TestStoreBackend_IsValid(t *testing.T) {
	assert.True(t, StoreBackendJSON.IsValid())
	assert.True(t, StoreBackendSQLite.IsValid())
	assert.True(t, StoreBackendMemory.IsValid())
	assert.False(t, StoreBackend("postgres").IsValid())
}

func TestStoreSettings_Paths(t *testing.T) {
	s := StoreSettings{DataDir: "/srv/docintake"}

	assert.Equal(t, filepath.Join("/srv/docintake", "metadata", "output.json"), s.CorpusFile())
	assert.Equal(t, filepath.Join("/srv/docintake", "metadata", "corpus.db"), s.DatabaseFile())
	assert.Equal(t, filepath.Join("/srv/docintake", "upload"), s.UploadDir())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, AIProviderOpenRouter, s.Classifier.Provider)
	assert.Equal(t, "qwen/qwen3-coder:free", s.Classifier.Model)
	assert.Equal(t, 4000, s.Classifier.TextLimit)
	assert.Equal(t, TruncationHead, s.Classifier.Truncation)
	assert.Equal(t, DefaultClassifierTimeout, s.Classifier.Timeout)
	assert.Equal(t, StoreBackendJSON, s.Store.Backend)
	assert.Equal(t, ":3000", s.Server.Addr)
	assert.False(t, s.Classifier.IsConfigured())
}

func TestDefaultModelsCoverAllProviders(t *testing.T) {
	models := DefaultLLMModels()
	urls := DefaultBaseURLs()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, models[p], p)
		assert.NotEmpty(t, urls[p], p)
	}
}
