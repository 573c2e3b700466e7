// Package openai provides an LLM service adapter for OpenAI-compatible
// chat completion APIs, including OpenAI itself and the OpenRouter gateway.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/docintake/internal/adapters/driven/llm/httpjson"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// ErrEmptyCompletion is returned when the API answers without a usable choice.
var ErrEmptyCompletion = errors.New("openai: no response choices returned")

// LLMConfig holds configuration for the OpenAI-compatible LLM service.
type LLMConfig struct {
	// APIKey is the bearer token (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Set it to https://openrouter.ai/api/v1 for OpenRouter.
	BaseURL string

	// Model defaults to gpt-4o-mini.
	Model string

	Timeout time.Duration

	// Headers are sent with every request, e.g. OpenRouter's X-Title.
	Headers map[string]string
}

// LLMService speaks the /chat/completions dialect.
type LLMService struct {
	api   *httpjson.Client
	model string
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

type completionReply struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService creates a new OpenAI-compatible LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	bearer := "Bearer " + cfg.APIKey
	extra := cfg.Headers
	api := httpjson.New("openai", cfg.BaseURL, cfg.Timeout, httpjson.WithHeaders(func(h http.Header) {
		h.Set("Authorization", bearer)
		for k, v := range extra {
			h.Set(k, v)
		}
	}))

	return &LLMService{api: api, model: cfg.Model}, nil
}

// Chat sends the conversation and returns the first choice's content.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := completionRequest{
		Model:       s.model,
		Messages:    make([]completionMessage, len(messages)),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	for i, m := range messages {
		req.Messages[i] = completionMessage{Role: m.Role, Content: m.Content}
	}

	var reply completionReply
	if err := s.api.Post(ctx, "/chat/completions", req, &reply); err != nil {
		return "", err
	}
	if reply.Error != nil {
		return "", fmt.Errorf("openai error: %s", reply.Error.Message)
	}
	if len(reply.Choices) == 0 || reply.Choices[0].Message.Content == nil {
		return "", ErrEmptyCompletion
	}
	return *reply.Choices[0].Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/models")
}

// Close releases idle connections.
func (s *LLMService) Close() error {
	s.api.Close()
	return nil
}
