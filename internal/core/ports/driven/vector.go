package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// VectorIndex stores chunk embeddings with metadata in a named collection.
// Implementations embed texts themselves through an EmbeddingService.
type VectorIndex interface {
	// AddChunks embeds and upserts every chunk in the payload.
	// An empty payload is a no-op. A misaligned payload returns domain.ErrMisalignedPayload.
	AddChunks(ctx context.Context, payload domain.ChunkPayload) error

	// DeleteByDoc removes all entries whose metadata doc_id matches.
	DeleteByDoc(ctx context.Context, docID string) error

	// Reset drops and recreates the collection empty.
	Reset(ctx context.Context) error

	// Query returns up to topK matches ordered by decreasing similarity.
	// An empty index returns an empty result without embedding the text.
	Query(ctx context.Context, text string, topK int) (domain.QueryResult, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
