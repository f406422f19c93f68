// Package tokenizer counts model tokens for context budgeting.
package tokenizer

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Counter implements the interface.
var _ driven.TokenCounter = (*Counter)(nil)

// DefaultModel is the model whose encoding is used when none is given.
const DefaultModel = "gpt-3.5-turbo"

// Counter counts tokens with the tiktoken encoding for a model. The encoding
// is loaded on first use. If it cannot be loaded, counts are estimated at
// four characters per token.
type Counter struct {
	model string

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewCounter creates a token counter for model.
func NewCounter(model string) *Counter {
	if model == "" {
		model = DefaultModel
	}
	return &Counter{model: model}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(c.load)
	if c.enc == nil {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

func (c *Counter) load() {
	enc, err := tiktoken.EncodingForModel(c.model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	}
	if err != nil {
		logger.Warn("token encoding unavailable, estimating: %v", err)
		return
	}
	c.enc = enc
}

// Estimate approximates a token count from rune length.
func Estimate(text string) int {
	n := len([]rune(text))
	return (n + 3) / 4
}
