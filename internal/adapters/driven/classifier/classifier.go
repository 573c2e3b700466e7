// Package classifier turns sanitized document text into a domain.Classification
// by asking an LLM for a JSON description of the document.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docintake/internal/core/domain"
	"github.com/custodia-labs/docintake/internal/core/ports/driven"
	"github.com/custodia-labs/docintake/internal/logger"
)

// Ensure Classifier implements the interface.
var _ driven.Classifier = (*Classifier)(nil)

// fallbackPrompt is used when no PromptStore is configured or it fails to load.
const fallbackPrompt = `Responda somente com um objeto JSON com as chaves "titulo", "autor", "tipo", "orgao_emissor", "resumo_breve", "lingua" e "tags" descrevendo o texto abaixo.

Texto:
{}`

// Classifier asks an LLM to describe a document.
type Classifier struct {
	llm        driven.LLMService
	prompts    driven.PromptStore
	textLimit  int
	truncation domain.TruncationPolicy
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPromptStore loads the template from store on every call, so edits apply without a restart.
func WithPromptStore(store driven.PromptStore) Option {
	return func(c *Classifier) {
		c.prompts = store
	}
}

// WithTextLimit sets the character budget and how it is applied.
func WithTextLimit(limit int, policy domain.TruncationPolicy) Option {
	return func(c *Classifier) {
		if limit > 0 {
			c.textLimit = limit
		}
		if policy.IsValid() {
			c.truncation = policy
		}
	}
}

// New creates a classifier over llm.
func New(llm driven.LLMService, opts ...Option) *Classifier {
	c := &Classifier{
		llm:        llm,
		textLimit:  domain.DefaultTextLimit,
		truncation: domain.TruncationHead,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify sends one user message built from the prompt template and text,
// and parses the reply. The caller bounds the round trip through ctx.
// Every failure wraps domain.ErrClassificationUnavailable.
func (c *Classifier) Classify(ctx context.Context, text string) (*domain.Classification, error) {
	if c.llm == nil {
		return nil, fmt.Errorf("%w: no LLM configured", domain.ErrClassificationUnavailable)
	}

	prompt := Compose(c.loadPrompt(), Truncate(text, c.textLimit, c.truncation))
	logger.Debug("classifier: sending %d characters to %s", len([]rune(prompt)), c.llm.ModelName())

	reply, err := c.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrClassificationUnavailable, err)
	}

	cls, err := Parse(reply)
	if err != nil {
		logger.Debug("classifier: unparseable reply: %.200s", reply)
		return nil, fmt.Errorf("%w: %w", domain.ErrClassificationUnavailable, err)
	}
	return cls, nil
}

// loadPrompt loads the template from the store, falling back to the default if unavailable.
func (c *Classifier) loadPrompt() string {
	if c.prompts == nil {
		return fallbackPrompt
	}
	prompt, err := c.prompts.Load(driven.PromptClassify)
	if err != nil || strings.TrimSpace(prompt) == "" {
		logger.Warn("classifier: prompt unavailable, using built-in default: %v", err)
		return fallbackPrompt
	}
	return prompt
}

// Compose substitutes text into the first {} of template.
// A template without a placeholder gets the text appended after a blank line.
func Compose(template, text string) string {
	if strings.Contains(template, driven.PromptPlaceholder) {
		return strings.Replace(template, driven.PromptPlaceholder, text, 1)
	}
	return strings.TrimRight(template, "\n") + "\n\n" + text
}

// Truncate applies the character budget to text.
// TruncationHead keeps the first limit characters; TruncationSkip drops them
// and keeps the remainder. Characters are counted as runes.
func Truncate(text string, limit int, policy domain.TruncationPolicy) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if policy == domain.TruncationSkip {
		if len(runes) <= limit {
			return ""
		}
		return string(runes[limit:])
	}
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
