// Package pgvector provides a Postgres-backed VectorIndex using the pgvector extension.
package pgvector

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS docqa_vectors (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    doc_id TEXT NOT NULL,
    doc_name TEXT NOT NULL,
    chunk_id TEXT NOT NULL,
    source_link TEXT NOT NULL DEFAULT '',
    document TEXT NOT NULL,
    embedding vector NOT NULL,
    PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_docqa_vectors_doc ON docqa_vectors (collection, doc_id);
`

// Index stores a named collection in the docqa_vectors table and searches
// it by cosine distance.
type Index struct {
	pool       *pgxpool.Pool
	collection string
	embedder   driven.EmbeddingService
}

// New connects to Postgres, verifies the connection and ensures the schema exists.
func New(ctx context.Context, connString, collection string, embedder driven.EmbeddingService) (*Index, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrVectorIndexUnavailable, err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Index{pool: pool, collection: collection, embedder: embedder}, nil
}

// AddChunks embeds and upserts every chunk in the payload in one transaction.
func (x *Index) AddChunks(ctx context.Context, payload domain.ChunkPayload) error {
	if payload.Len() == 0 {
		return nil
	}
	if !payload.Aligned() {
		return domain.ErrMisalignedPayload
	}
	if x.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	embeddings, err := x.embedder.EmbedBatch(ctx, payload.Texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != payload.Len() {
		return fmt.Errorf("embedding chunks: got %d vectors for %d texts", len(embeddings), payload.Len())
	}

	tx, err := x.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	batch := &pgx.Batch{}
	for i, text := range payload.Texts {
		meta := payload.Metadatas[i]
		batch.Queue(`
			INSERT INTO docqa_vectors (collection, id, doc_id, doc_name, chunk_id, source_link, document, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (collection, id) DO UPDATE SET
				doc_id = EXCLUDED.doc_id,
				doc_name = EXCLUDED.doc_name,
				chunk_id = EXCLUDED.chunk_id,
				source_link = EXCLUDED.source_link,
				document = EXCLUDED.document,
				embedding = EXCLUDED.embedding
		`, x.collection, payload.IDs[i], meta.DocID, meta.DocName, meta.ChunkID,
			meta.SourceLink, text, pgvector.NewVector(embeddings[i]))
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting chunks: %w", err)
	}
	return tx.Commit(ctx)
}

// DeleteByDoc removes all entries for a document.
func (x *Index) DeleteByDoc(ctx context.Context, docID string) error {
	n, err := x.Count(ctx)
	if err != nil || n == 0 {
		return err
	}
	if _, err := x.pool.Exec(ctx,
		`DELETE FROM docqa_vectors WHERE collection = $1 AND doc_id = $2`, x.collection, docID); err != nil {
		return fmt.Errorf("deleting document vectors: %w", err)
	}
	return nil
}

// Reset drops every entry in the collection.
func (x *Index) Reset(ctx context.Context) error {
	if _, err := x.pool.Exec(ctx, `DELETE FROM docqa_vectors WHERE collection = $1`, x.collection); err != nil {
		return fmt.Errorf("resetting collection: %w", err)
	}
	return nil
}

// Count returns the number of entries in the collection.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := x.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM docqa_vectors WHERE collection = $1`, x.collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return n, nil
}

// Query returns up to topK entries ordered by increasing cosine distance.
func (x *Index) Query(ctx context.Context, text string, topK int) (domain.QueryResult, error) {
	var result domain.QueryResult

	n, err := x.Count(ctx)
	if err != nil {
		return result, err
	}
	if n == 0 || topK <= 0 {
		return result, nil
	}
	if x.embedder == nil {
		return result, domain.ErrEmbeddingUnavailable
	}

	query, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return result, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := x.pool.Query(ctx, `
		SELECT id, doc_id, doc_name, chunk_id, source_link, document,
		       1 - (embedding <=> $2) AS similarity
		FROM docqa_vectors
		WHERE collection = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`, x.collection, pgvector.NewVector(query), topK)
	if err != nil {
		return result, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, document string
		var meta domain.ChunkMetadata
		var similarity float64
		if err := rows.Scan(&id, &meta.DocID, &meta.DocName, &meta.ChunkID,
			&meta.SourceLink, &document, &similarity); err != nil {
			return result, fmt.Errorf("scanning vector: %w", err)
		}
		result.IDs = append(result.IDs, id)
		result.Documents = append(result.Documents, document)
		result.Metadatas = append(result.Metadatas, meta)
		result.Scores = append(result.Scores, similarity)
	}
	return result, rows.Err()
}

// Close releases the connection pool.
func (x *Index) Close() error {
	x.pool.Close()
	return nil
}
