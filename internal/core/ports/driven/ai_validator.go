package driven

import "github.com/custodia-labs/docintake/internal/core/domain"

// AIConfigValidator validates AI provider configurations by attempting connections.
type AIConfigValidator interface {
	// ValidateClassifier builds the configured LLM client and pings it.
	ValidateClassifier(settings *domain.ClassifierSettings) error
}
