// Package memory provides in-process implementations of the storage ports.
// State is lost when the process exits.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	order     []string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// Add stores a new document.
func (s *DocumentStore) Add(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; !ok {
		s.order = append(s.order, doc.ID)
	}
	s.documents[doc.ID] = cloneDocument(*doc)
	return nil
}

// Update merges the supplied fields into an existing document.
func (s *DocumentStore) Update(_ context.Context, id string, update domain.DocumentUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil
	}
	update.Apply(&doc)
	s.documents[id] = doc
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc = cloneDocument(doc)
	return &doc, nil
}

// Delete removes a document and returns it.
func (s *DocumentStore) Delete(_ context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(s.documents, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return &doc, nil
}

// List returns all documents in insertion order.
func (s *DocumentStore) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, cloneDocument(s.documents[id]))
	}
	return result, nil
}

// Clear removes every document and returns the removed records.
func (s *DocumentStore) Clear(_ context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		removed = append(removed, s.documents[id])
	}
	s.documents = make(map[string]domain.Document)
	s.order = nil
	return removed, nil
}

func cloneDocument(doc domain.Document) domain.Document {
	doc.Tables = append([]string(nil), doc.Tables...)
	return doc
}
