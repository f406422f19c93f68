package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vecmath"
)

func TestEmbed_Deterministic(t *testing.T) {
	svc := NewEmbeddingService(0)
	ctx := context.Background()

	a, err := svc.Embed(ctx, "Blood pressure readings")
	require.NoError(t, err)
	b, err := svc.Embed(ctx, "blood   PRESSURE readings")
	require.NoError(t, err)

	assert.Len(t, a, DefaultDimensions)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, vecmath.Cosine(a, a), 1e-6)
}

func TestEmbed_LexicalSimilarity(t *testing.T) {
	svc := NewEmbeddingService(256)
	ctx := context.Background()

	vecs, err := svc.EmbedBatch(ctx, []string{
		"patient blood pressure was high",
		"blood pressure of the patient",
		"quarterly revenue increased",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	related := vecmath.Cosine(vecs[0], vecs[1])
	unrelated := vecmath.Cosine(vecs[0], vecs[2])
	assert.Greater(t, related, unrelated)
}

func TestEmbed_EmptyText(t *testing.T) {
	svc := NewEmbeddingService(8)
	v, err := svc.Embed(context.Background(), "the and of")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestMetadata(t *testing.T) {
	svc := NewEmbeddingService(0)
	assert.Equal(t, ModelName, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
