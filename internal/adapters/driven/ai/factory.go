// Package ai provides factory functions for creating AI service adapters.
//
// Backends are resolved once at startup into a Remote, LocalFallback or
// Unavailable mode; callers receive concrete services and never re-select.
package ai

import (
	"fmt"

	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/docqa/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// InitResult contains the resolved AI backends.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	EmbeddingMode    domain.BackendMode
	LLMService       driven.LLMService // nil when LLMMode is unavailable.
	LLMMode          domain.BackendMode
	LLMProvider      domain.AIProvider
	Warnings         []string // Non-fatal issues that caused fallback.
}

// LLMEnabled reports whether a language model is available.
func (r *InitResult) LLMEnabled() bool {
	return r.LLMService != nil
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		_ = r.LLMService.Close()
	}
}

// Resolve selects the embedding and LLM backends from settings.
//
// A configured remote embedding provider is used exclusively. Without one,
// a lazily initialised local embedder is used instead. The LLM has no local
// fallback: without credentials it is unavailable and answers degrade.
func Resolve(settings domain.AppSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{LLMProvider: settings.LLM.Provider}

	embedder, err := CreateEmbeddingService(settings.Embedding)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("embedding provider %q unusable, using local fallback: %v", settings.Embedding.Provider, err))
		fallthrough
	case embedder == nil:
		result.EmbeddingService = NewLazyEmbedder(func() driven.EmbeddingService {
			return local.NewEmbeddingService(local.DefaultDimensions)
		}, local.ModelName, local.DefaultDimensions)
		result.EmbeddingMode = domain.BackendLocalFallback
	default:
		result.EmbeddingService = embedder
		result.EmbeddingMode = domain.BackendRemote
	}

	llm, err := CreateLLMService(settings.LLM)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("llm provider %q unusable: %v", settings.LLM.Provider, err))
		result.LLMMode = domain.BackendUnavailable
	case llm == nil:
		result.LLMMode = domain.BackendUnavailable
	default:
		if aware, ok := llm.(driven.PromptStoreAware); ok && prompts != nil {
			aware.SetPromptStore(prompts)
		}
		result.LLMService = llm
		result.LLMMode = domain.BackendRemote
	}

	return result
}

// CreateEmbeddingService creates the remote embedding service named by settings.
// Returns nil when no remote provider is configured.
func CreateEmbeddingService(settings domain.ProviderSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() || settings.Provider == domain.AIProviderLocal {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderGroq:
		return nil, fmt.Errorf("groq does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the LLM service named by settings.
// Returns nil when the provider is not configured.
func CreateLLMService(settings domain.ProviderSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings, "")

	case domain.AIProviderGroq:
		return createOpenAILLM(settings, domain.DefaultGroqBaseURL)

	case domain.AIProviderLocal:
		return nil, fmt.Errorf("no local language model is available")

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

func createOllamaEmbedding(settings domain.ProviderSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createOpenAIEmbedding(settings domain.ProviderSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createOllamaLLM(settings domain.ProviderSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM serves both OpenAI and Groq; defaultBaseURL is used when
// settings leave the base URL empty.
func createOpenAILLM(settings domain.ProviderSettings, defaultBaseURL string) (driven.LLMService, error) {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: baseURL,
		Model:   settings.Model,
		Name:    settings.Provider.String(),
	})
}
