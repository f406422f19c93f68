package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentService manages ingested documents and keeps the vector index in step.
type DocumentService interface {
	// List returns all document records.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes the record, its raw file (best-effort) and its index entries.
	// Returns domain.ErrNotFound if the document does not exist.
	Delete(ctx context.Context, id string) (*domain.Document, error)

	// Clear removes all records and raw files and resets the index.
	// Returns the number of documents removed.
	Clear(ctx context.Context) (int, error)
}
