package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages document records, raw files and index entries.
type DocumentService struct {
	docStore    driven.DocumentStore
	files       driven.FileStore
	vectorIndex driven.VectorIndex
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	files driven.FileStore,
	vectorIndex driven.VectorIndex,
) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		files:       files,
		vectorIndex: vectorIndex,
	}
}

// List returns all document records.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.List(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.docStore.Get(ctx, id)
}

// Delete removes the record, its raw file and its index entries.
// The raw file removal is best-effort.
func (s *DocumentService) Delete(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.docStore.Delete(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("delete document %s: %w", id, err)
	}

	s.removeFile(ctx, doc.Path)

	if err := s.vectorIndex.DeleteByDoc(ctx, id); err != nil {
		return nil, fmt.Errorf("delete index entries for %s: %w", id, err)
	}

	logger.Debug("Deleted document %s (%s)", id, doc.Name)
	return doc, nil
}

// Clear removes all records and raw files and resets the index.
func (s *DocumentService) Clear(ctx context.Context) (int, error) {
	docs, err := s.docStore.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear documents: %w", err)
	}

	for _, doc := range docs {
		s.removeFile(ctx, doc.Path)
	}

	if err := s.vectorIndex.Reset(ctx); err != nil {
		return len(docs), fmt.Errorf("reset index: %w", err)
	}

	logger.Debug("Cleared %d documents", len(docs))
	return len(docs), nil
}

func (s *DocumentService) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.files.Remove(ctx, path); err != nil {
		logger.Warn("could not remove %s: %v", path, err)
	}
}
