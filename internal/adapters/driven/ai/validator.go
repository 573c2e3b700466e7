package ai

import (
	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateClassifier validates a classifier configuration by pinging the provider.
func (v *ConfigValidator) ValidateClassifier(settings *domain.ClassifierSettings) error {
	return ValidateClassifierConfig(settings)
}
