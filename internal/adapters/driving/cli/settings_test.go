package cli

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docintake/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShow(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeRoot("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Classifier]")
	assert.Contains(t, out, "Provider: OpenRouter (cloud gateway)")
	assert.Contains(t, out, "Model: qwen/qwen3-coder:free")
	assert.Contains(t, out, "API Key: sk-o...cdef")
	assert.Contains(t, out, "Text limit: 4000 (head)")
	assert.Contains(t, out, "Backend: json")
	assert.Contains(t, out, "Address: :3000")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_DefaultSubcommand(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeRoot("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsShow_PrefersRuntimeSettings(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	runtime := domain.DefaultAppSettings()
	runtime.Store.DataDir = "/srv/docintake"
	appSettings = &runtime

	out, err := executeRoot("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Data dir: /srv/docintake")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "Status: not configured")
}

func TestSettingsShow_ValidationWarning(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.validateErr = errors.New("classifier provider is not configured")

	out, err := executeRoot("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: classifier provider is not configured")
	assert.Contains(t, out, "docintake settings classifier")
}

func TestSettingsShow_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, err := executeRoot("settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsClassifier_LocalProvider(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	oldInput := settingsInput
	settingsInput = func() *bufio.Reader { return bufio.NewReader(strings.NewReader("4\n\n")) }
	defer func() { settingsInput = oldInput }()

	out, err := executeRoot("settings", "classifier")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, ts.settings.setProvider)
	assert.Equal(t, "llama3.2", ts.settings.setModel)
	assert.Empty(t, ts.settings.setAPIKey)
	assert.Contains(t, out, "Validating configuration... OK")
	assert.Contains(t, out, "Classifier configured: Ollama (local) (llama3.2)")
}

func TestSettingsClassifier_CustomModel(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	oldInput := settingsInput
	settingsInput = func() *bufio.Reader { return bufio.NewReader(strings.NewReader("4\nqwen2.5:7b\n")) }
	defer func() { settingsInput = oldInput }()

	_, err := executeRoot("settings", "classifier")

	require.NoError(t, err)
	assert.Equal(t, "qwen2.5:7b", ts.settings.setModel)
}

func TestSettingsClassifier_PingFails(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.pingErr = domain.ErrLLMUnavailable

	oldInput := settingsInput
	settingsInput = func() *bufio.Reader { return bufio.NewReader(strings.NewReader("4\n\n")) }
	defer func() { settingsInput = oldInput }()

	out, err := executeRoot("settings", "classifier")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, out, "FAILED")
}

func TestSettingsTest(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeRoot("settings", "test")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	ts.settings.pingErr = domain.ErrLLMUnavailable
	_, err = executeRoot("settings", "test")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
