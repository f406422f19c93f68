package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

type entry struct {
	id        string
	text      string
	meta      domain.ChunkMetadata
	embedding []float32
}

// VectorIndex is an in-memory implementation of driven.VectorIndex
// using exhaustive cosine similarity.
type VectorIndex struct {
	mu       sync.RWMutex
	embedder driven.EmbeddingService
	entries  []entry
	byID     map[string]int
}

// NewVectorIndex creates an empty index that embeds texts with embedder.
func NewVectorIndex(embedder driven.EmbeddingService) *VectorIndex {
	return &VectorIndex{
		embedder: embedder,
		byID:     make(map[string]int),
	}
}

// AddChunks embeds and upserts every chunk in the payload.
func (v *VectorIndex) AddChunks(ctx context.Context, payload domain.ChunkPayload) error {
	if payload.Len() == 0 {
		return nil
	}
	if !payload.Aligned() {
		return domain.ErrMisalignedPayload
	}
	if v.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	embeddings, err := v.embedder.EmbedBatch(ctx, payload.Texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != payload.Len() {
		return fmt.Errorf("embedding chunks: got %d vectors for %d texts", len(embeddings), payload.Len())
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i, id := range payload.IDs {
		e := entry{id: id, text: payload.Texts[i], meta: payload.Metadatas[i], embedding: embeddings[i]}
		if pos, ok := v.byID[id]; ok {
			v.entries[pos] = e
			continue
		}
		v.byID[id] = len(v.entries)
		v.entries = append(v.entries, e)
	}
	return nil
}

// DeleteByDoc removes all entries for a document.
func (v *VectorIndex) DeleteByDoc(_ context.Context, docID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.entries) == 0 {
		return nil
	}

	kept := v.entries[:0]
	for _, e := range v.entries {
		if e.meta.DocID != docID {
			kept = append(kept, e)
		}
	}
	v.entries = kept
	v.reindex()
	return nil
}

// Reset drops every entry.
func (v *VectorIndex) Reset(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = nil
	v.byID = make(map[string]int)
	return nil
}

// Count returns the number of entries.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries), nil
}

// Query returns up to topK entries ordered by decreasing cosine similarity.
func (v *VectorIndex) Query(ctx context.Context, text string, topK int) (domain.QueryResult, error) {
	var result domain.QueryResult
	if n, _ := v.Count(ctx); n == 0 || topK <= 0 {
		return result, nil
	}
	if v.embedder == nil {
		return result, domain.ErrEmbeddingUnavailable
	}

	query, err := v.embedder.Embed(ctx, text)
	if err != nil {
		return result, fmt.Errorf("embedding query: %w", err)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	candidates := make([][]float32, len(v.entries))
	for i, e := range v.entries {
		candidates[i] = e.embedding
	}
	for _, hit := range vecmath.TopK(query, candidates, topK) {
		e := v.entries[hit.Index]
		result.IDs = append(result.IDs, e.id)
		result.Documents = append(result.Documents, e.text)
		result.Metadatas = append(result.Metadatas, e.meta)
		result.Scores = append(result.Scores, hit.Score)
	}
	return result, nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

func (v *VectorIndex) reindex() {
	v.byID = make(map[string]int, len(v.entries))
	for i, e := range v.entries {
		v.byID[e.id] = i
	}
}
