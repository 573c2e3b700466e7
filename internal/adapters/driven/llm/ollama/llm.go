// Package ollama provides an LLM service adapter for a local Ollama daemon.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docintake/internal/adapters/driven/llm/httpjson"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL defaults to http://localhost:11434.
	BaseURL string

	// Model defaults to llama3.2.
	Model string

	Timeout time.Duration

	// JSONMode asks Ollama to constrain output to a JSON value.
	JSONMode bool
}

// LLMService talks to /api/chat without streaming.
type LLMService struct {
	api      *httpjson.Client
	model    string
	jsonMode bool
}

type generation struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string      `json:"model"`
	Messages []turn      `json:"messages"`
	Stream   bool        `json:"stream"`
	Format   string      `json:"format,omitempty"`
	Options  *generation `json:"options,omitempty"`
}

type chatReply struct {
	Message turn   `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewLLMService creates a new Ollama LLM service. No key is needed.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		api:      httpjson.New("ollama", cfg.BaseURL, cfg.Timeout),
		model:    cfg.Model,
		jsonMode: cfg.JSONMode,
	}
}

// Chat conducts a single non-streaming exchange.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := chatRequest{
		Model:    s.model,
		Messages: make([]turn, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = turn{Role: m.Role, Content: m.Content}
	}
	if s.jsonMode {
		req.Format = "json"
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		req.Options = &generation{NumPredict: opts.MaxTokens, Temperature: opts.Temperature}
	}

	var reply chatReply
	if err := s.api.Post(ctx, "/api/chat", req, &reply); err != nil {
		return "", err
	}
	if reply.Error != "" {
		return "", fmt.Errorf("ollama error: %s", reply.Error)
	}
	return reply.Message.Content, nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the daemon is up via /api/tags.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/api/tags")
}

// Close releases idle connections.
func (s *LLMService) Close() error {
	s.api.Close()
	return nil
}
