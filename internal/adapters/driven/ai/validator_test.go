package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	var _ driven.AIConfigValidator = (*ConfigValidator)(nil)
}

func TestConfigValidator_ValidateClassifier_NilConfig(t *testing.T) {
	validator := NewConfigValidator()

	// nil config has nothing to validate
	assert.NoError(t, validator.ValidateClassifier(nil))
}

func TestConfigValidator_ValidateClassifier_MissingAPIKey(t *testing.T) {
	validator := NewConfigValidator()
	settings := &domain.ClassifierSettings{
		Provider: domain.AIProviderOpenRouter,
		Model:    "qwen/qwen3-coder:free",
	}

	// Not configured, so nothing is pinged.
	assert.NoError(t, validator.ValidateClassifier(settings))
}

func TestConfigValidator_ValidateClassifier_PingsProvider(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	validator := NewConfigValidator()
	settings := &domain.ClassifierSettings{
		Provider: domain.AIProviderOpenRouter,
		APIKey:   "sk-or-test",
		BaseURL:  srv.URL,
	}

	assert.NoError(t, validator.ValidateClassifier(settings))

	status = http.StatusUnauthorized
	assert.Error(t, validator.ValidateClassifier(settings))
}
