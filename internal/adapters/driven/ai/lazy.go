package ai

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure LazyEmbedder implements the interface.
var _ driven.EmbeddingService = (*LazyEmbedder)(nil)

// LazyEmbedder defers construction of an embedding service until the first
// call that needs it, then reuses that instance for the process lifetime.
type LazyEmbedder struct {
	newFn      func() driven.EmbeddingService
	model      string
	dimensions int

	mu  sync.Mutex
	svc driven.EmbeddingService
}

// NewLazyEmbedder wraps newFn. model and dimensions are reported before
// the service exists.
func NewLazyEmbedder(newFn func() driven.EmbeddingService, model string, dimensions int) *LazyEmbedder {
	return &LazyEmbedder{newFn: newFn, model: model, dimensions: dimensions}
}

func (l *LazyEmbedder) get() driven.EmbeddingService {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.svc == nil {
		l.svc = l.newFn()
	}
	return l.svc
}

// Initialised reports whether the underlying service has been built.
func (l *LazyEmbedder) Initialised() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.svc != nil
}

// Embed generates a vector embedding for the given text.
func (l *LazyEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return l.get().Embed(ctx, text)
}

// EmbedBatch generates embeddings for multiple texts.
func (l *LazyEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return l.get().EmbedBatch(ctx, texts)
}

// Dimensions returns the embedding vector size.
func (l *LazyEmbedder) Dimensions() int {
	return l.dimensions
}

// ModelName returns the name of the embedding model being used.
func (l *LazyEmbedder) ModelName() string {
	return l.model
}

// Ping builds the service if needed and pings it.
func (l *LazyEmbedder) Ping(ctx context.Context) error {
	return l.get().Ping(ctx)
}

// Close releases the underlying service if it was built.
func (l *LazyEmbedder) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.svc == nil {
		return nil
	}
	return l.svc.Close()
}
