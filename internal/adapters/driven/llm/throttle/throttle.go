// Package throttle wraps an LLM service with a client-side request rate limit.
//
// Free-tier gateways such as OpenRouter reject bursts with 429 responses.
// Limiting on our side keeps concurrent ingests queued instead of failing
// their classification.
package throttle

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docintake/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService delays Chat calls so the wrapped service sees at most
// the configured number of requests per minute.
type LLMService struct {
	next    driven.LLMService
	limiter *rate.Limiter
}

// New wraps next with a limit of requestsPerMinute, allowing a burst of one.
// A non-positive limit returns next unchanged.
func New(next driven.LLMService, requestsPerMinute int) driven.LLMService {
	if requestsPerMinute <= 0 || next == nil {
		return next
	}
	every := time.Minute / time.Duration(requestsPerMinute)
	return &LLMService{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

// Chat waits for a token and forwards the conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("throttle: %w", err)
	}
	return s.next.Chat(ctx, messages, opts)
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string {
	return s.next.ModelName()
}

// Ping is not rate limited.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.next.Close()
}
