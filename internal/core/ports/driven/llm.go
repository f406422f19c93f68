// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides language model operations.
// This is an optional service - when nil, answers degrade to the best retrieved chunk.
//
// Implementations:
//   - OpenAI (gpt-3.5-turbo, gpt-4o-mini)
//   - Groq (OpenAI-compatible endpoint)
//   - Ollama (local models)
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the assistant reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// Summarise creates a brief summary of content.
	Summarise(ctx context.Context, content string) (string, error)

	// NormaliseSection asks the model to restate a report section title
	// through a single structured field. Returns domain.ErrEmptyResponse
	// when the model does not produce a usable title.
	NormaliseSection(ctx context.Context, section string) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
