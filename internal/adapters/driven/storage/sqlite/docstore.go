package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
// Update and Delete are read-modify-write, so writes share one mutex.
type documentStore struct {
	store *Store
	mu    sync.Mutex
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `id, name, path, source, source_link, chunk_count, tables, created_at`

// Add stores a new document.
func (s *documentStore) Add(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	tablesJSON, err := marshalTables(doc.Tables)
	if err != nil {
		return err
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			path = excluded.path,
			source = excluded.source,
			source_link = excluded.source_link,
			chunk_count = excluded.chunk_count,
			tables = excluded.tables
	`, doc.ID, doc.Name, doc.Path, string(doc.Source), doc.SourceLink,
		doc.ChunkCount, tablesJSON, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Update merges the supplied fields into an existing document.
func (s *documentStore) Update(ctx context.Context, id string, update domain.DocumentUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	update.Apply(doc)
	tablesJSON, err := marshalTables(doc.Tables)
	if err != nil {
		return err
	}

	_, err = s.store.db.ExecContext(ctx, `
		UPDATE documents
		SET name = ?, path = ?, source = ?, source_link = ?, chunk_count = ?, tables = ?
		WHERE id = ?
	`, doc.Name, doc.Path, string(doc.Source), doc.SourceLink, doc.ChunkCount, tablesJSON, id)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}
	return nil
}

// Get retrieves a document by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.get(ctx, id)
}

func (s *documentStore) get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// Delete removes a document and returns the removed record.
func (s *documentStore) Delete(ctx context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("deleting document: %w", err)
	}
	return doc, nil
}

// List returns all documents in insertion order.
func (s *documentStore) List(ctx context.Context) ([]domain.Document, error) {
	return s.list(ctx)
}

func (s *documentStore) list(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// Clear removes every document and returns the removed records.
func (s *documentStore) Clear(ctx context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return nil, fmt.Errorf("clearing documents: %w", err)
	}
	return docs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var source, tablesJSON string
	if err := row.Scan(&doc.ID, &doc.Name, &doc.Path, &source, &doc.SourceLink,
		&doc.ChunkCount, &tablesJSON, &doc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.Source = domain.DocumentSource(source)
	if err := json.Unmarshal([]byte(tablesJSON), &doc.Tables); err != nil {
		return nil, fmt.Errorf("unmarshalling tables: %w", err)
	}
	return &doc, nil
}

func marshalTables(tables []string) (string, error) {
	if tables == nil {
		tables = []string{}
	}
	data, err := json.Marshal(tables)
	if err != nil {
		return "", fmt.Errorf("marshalling tables: %w", err)
	}
	return string(data), nil
}
