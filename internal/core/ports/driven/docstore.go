package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentStore persists ingested document records.
type DocumentStore interface {
	// Add stores a new document.
	Add(ctx context.Context, doc *domain.Document) error

	// Update merges the supplied fields into an existing document.
	// Unknown ids are a silent no-op.
	Update(ctx context.Context, id string, update domain.DocumentUpdate) error

	// Get retrieves a document by ID. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document and returns it. Returns domain.ErrNotFound if missing.
	Delete(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents in insertion order.
	List(ctx context.Context) ([]domain.Document, error)

	// Clear removes every document and returns the removed records.
	Clear(ctx context.Context) ([]domain.Document, error)
}
