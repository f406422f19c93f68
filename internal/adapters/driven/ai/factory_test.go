package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		result.Close()
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		embedding     domain.ProviderSettings
		llm           domain.ProviderSettings
		wantEmbedMode domain.BackendMode
		wantLLMMode   domain.BackendMode
		wantWarnings  int
	}{
		{
			name:          "no credentials",
			embedding:     domain.ProviderSettings{Provider: domain.AIProviderOpenAI},
			llm:           domain.ProviderSettings{Provider: domain.AIProviderOpenAI},
			wantEmbedMode: domain.BackendLocalFallback,
			wantLLMMode:   domain.BackendUnavailable,
		},
		{
			name:          "openai configured",
			embedding:     domain.ProviderSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"},
			llm:           domain.ProviderSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"},
			wantEmbedMode: domain.BackendRemote,
			wantLLMMode:   domain.BackendRemote,
		},
		{
			name:          "groq llm with local embeddings",
			embedding:     domain.ProviderSettings{Provider: domain.AIProviderLocal},
			llm:           domain.ProviderSettings{Provider: domain.AIProviderGroq, APIKey: "k"},
			wantEmbedMode: domain.BackendLocalFallback,
			wantLLMMode:   domain.BackendRemote,
		},
		{
			name:          "groq embeddings fall back with warning",
			embedding:     domain.ProviderSettings{Provider: domain.AIProviderGroq, APIKey: "k"},
			llm:           domain.ProviderSettings{Provider: domain.AIProviderOllama},
			wantEmbedMode: domain.BackendLocalFallback,
			wantLLMMode:   domain.BackendRemote,
			wantWarnings:  1,
		},
		{
			name:          "unknown llm provider",
			embedding:     domain.ProviderSettings{Provider: domain.AIProviderOllama},
			llm:           domain.ProviderSettings{Provider: "mystery"},
			wantEmbedMode: domain.BackendRemote,
			wantLLMMode:   domain.BackendUnavailable,
			wantWarnings:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := domain.DefaultAppSettings()
			settings.Embedding = tt.embedding
			settings.LLM = tt.llm

			result := Resolve(settings, nil)
			defer result.Close()

			require.NotNil(t, result.EmbeddingService)
			assert.Equal(t, tt.wantEmbedMode, result.EmbeddingMode)
			assert.Equal(t, tt.wantLLMMode, result.LLMMode)
			assert.Equal(t, tt.wantLLMMode == domain.BackendRemote, result.LLMEnabled())
			assert.Len(t, result.Warnings, tt.wantWarnings)
		})
	}
}

func TestResolve_LocalFallbackIsLazy(t *testing.T) {
	settings := domain.DefaultAppSettings()
	result := Resolve(settings, nil)

	lazy, ok := result.EmbeddingService.(*LazyEmbedder)
	require.True(t, ok)
	assert.False(t, lazy.Initialised())
	assert.Equal(t, local.ModelName, lazy.ModelName())
	assert.Equal(t, local.DefaultDimensions, lazy.Dimensions())

	_, err := lazy.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.True(t, lazy.Initialised())
}

func TestCreateLLMService_GroqUsesGroqBaseURL(t *testing.T) {
	svc, err := CreateLLMService(domain.ProviderSettings{
		Provider: domain.AIProviderGroq,
		APIKey:   "k",
		Model:    "llama-3.1-8b-instant",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, "llama-3.1-8b-instant", svc.ModelName())
}

func TestCreateLLMService_LocalProviderErrors(t *testing.T) {
	svc, err := CreateLLMService(domain.ProviderSettings{Provider: domain.AIProviderLocal})
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestLazyEmbedder_BuildsOnce(t *testing.T) {
	builds := 0
	lazy := NewLazyEmbedder(func() driven.EmbeddingService {
		builds++
		return local.NewEmbeddingService(4)
	}, "test", 4)

	for i := 0; i < 3; i++ {
		_, err := lazy.EmbedBatch(context.Background(), []string{"a", "b"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, builds)
	assert.NoError(t, lazy.Close())
}

func TestLazyEmbedder_CloseWithoutBuild(t *testing.T) {
	lazy := NewLazyEmbedder(func() driven.EmbeddingService {
		t.Fatal("must not build")
		return nil
	}, "test", 4)
	assert.NoError(t, lazy.Close())
}
