package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// axisEmbedder maps known words to unit axes.
type axisEmbedder struct {
	calls int
	err   error
}

func (e *axisEmbedder) vector(text string) []float32 {
	switch text {
	case "cat":
		return []float32{1, 0, 0}
	case "dog":
		return []float32{0, 1, 0}
	case "kitten":
		return []float32{0.9, 0.1, 0}
	default:
		return []float32{0, 0, 1}
	}
}

func (e *axisEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	return e.vector(text), e.err
}

func (e *axisEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *axisEmbedder) Dimensions() int              { return 3 }
func (e *axisEmbedder) ModelName() string            { return "axis" }
func (e *axisEmbedder) Ping(_ context.Context) error { return nil }
func (e *axisEmbedder) Close() error                 { return nil }

func payload(docID string, texts ...string) domain.ChunkPayload {
	var p domain.ChunkPayload
	for i, text := range texts {
		id := docID + "_" + string(rune('0'+i))
		p.Texts = append(p.Texts, text)
		p.IDs = append(p.IDs, id)
		p.Metadatas = append(p.Metadatas, domain.ChunkMetadata{DocID: docID, ChunkID: id})
	}
	return p
}

func TestVectorIndex_Query(t *testing.T) {
	ctx := context.Background()
	embedder := &axisEmbedder{}
	index := NewVectorIndex(embedder)

	result, err := index.Query(ctx, "cat", 3)
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Equal(t, 0, embedder.calls, "empty index must not embed")

	require.NoError(t, index.AddChunks(ctx, payload("d1", "dog", "cat")))
	require.NoError(t, index.AddChunks(ctx, payload("d2", "kitten")))

	result, err = index.Query(ctx, "cat", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "kitten"}, result.Documents)
	assert.Equal(t, []string{"d1_1", "d2_0"}, result.IDs)
}

func TestVectorIndex_DeleteAndReset(t *testing.T) {
	ctx := context.Background()
	index := NewVectorIndex(&axisEmbedder{})

	require.NoError(t, index.AddChunks(ctx, payload("d1", "cat", "dog")))
	require.NoError(t, index.AddChunks(ctx, payload("d2", "kitten")))
	require.NoError(t, index.DeleteByDoc(ctx, "d1"))

	n, _ := index.Count(ctx)
	assert.Equal(t, 1, n)

	require.NoError(t, index.AddChunks(ctx, payload("d2", "cat")))
	n, _ = index.Count(ctx)
	assert.Equal(t, 1, n, "same id upserts")

	require.NoError(t, index.Reset(ctx))
	n, _ = index.Count(ctx)
	assert.Equal(t, 0, n)
}

func TestVectorIndex_Errors(t *testing.T) {
	ctx := context.Background()

	index := NewVectorIndex(&axisEmbedder{err: errors.New("boom")})
	assert.Error(t, index.AddChunks(ctx, payload("d", "cat")))

	p := payload("d", "cat")
	p.Metadatas = nil
	assert.ErrorIs(t, NewVectorIndex(&axisEmbedder{}).AddChunks(ctx, p), domain.ErrMisalignedPayload)
}
