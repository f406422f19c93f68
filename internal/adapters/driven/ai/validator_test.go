package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestCheck_LocalEmbeddingNoLLM(t *testing.T) {
	result := Resolve(domain.DefaultAppSettings(), nil)
	defer result.Close()

	errs := Check(context.Background(), result)

	assert.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrLLMUnavailable)
}

func TestCheck_UnreachableLLM(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.ProviderSettings{Provider: domain.AIProviderLocal}
	settings.LLM = domain.ProviderSettings{Provider: domain.AIProviderOllama, BaseURL: "http://127.0.0.1:1"}
	result := Resolve(settings, nil)
	defer result.Close()

	errs := Check(context.Background(), result)

	assert.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrLLMUnavailable)
}
