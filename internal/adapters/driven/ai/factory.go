// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/docintake/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docintake/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docintake/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docintake/internal/adapters/driven/llm/throttle"
	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// openRouterTitle identifies this application in OpenRouter usage stats.
const openRouterTitle = "docintake"

// CreateLLMService creates the appropriate LLM service based on settings,
// wrapped with the configured request rate limit.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.ClassifierSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.LLMService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = createOllamaLLM(settings)

	case domain.AIProviderOpenAI:
		svc, err = createOpenAILLM(settings, nil)

	case domain.AIProviderOpenRouter:
		svc, err = createOpenAILLM(settings, map[string]string{"X-Title": openRouterTitle})

	case domain.AIProviderAnthropic:
		svc, err = createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return throttle.New(svc, settings.RequestsPerMinute), nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.ClassifierSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docintake settings classifier' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'docintake settings classifier' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateClassifierConfig validates a classifier configuration by creating a service and pinging it.
// Unconfigured settings have nothing to validate.
func ValidateClassifierConfig(settings *domain.ClassifierSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// baseURL returns the configured endpoint, or the provider default.
func baseURL(settings *domain.ClassifierSettings) string {
	if settings.BaseURL != "" {
		return settings.BaseURL
	}
	return domain.DefaultBaseURLs()[settings.Provider]
}

func createOllamaLLM(settings *domain.ClassifierSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL:  baseURL(settings),
		Model:    settings.Model,
		Timeout:  settings.Timeout,
		JSONMode: true,
	})
}

// createOpenAILLM serves both OpenAI and OpenRouter, which share a wire format.
func createOpenAILLM(settings *domain.ClassifierSettings, headers map[string]string) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: baseURL(settings),
		Model:   settings.Model,
		Timeout: settings.Timeout,
		Headers: headers,
	})
}

func createAnthropicLLM(settings *domain.ClassifierSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: baseURL(settings),
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}
