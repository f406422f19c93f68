package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex as a collection in the vectors table.
// Search is exhaustive cosine similarity over the collection.
type vectorIndex struct {
	store      *Store
	collection string
	embedder   driven.EmbeddingService
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// AddChunks embeds and upserts every chunk in the payload in one transaction.
func (v *vectorIndex) AddChunks(ctx context.Context, payload domain.ChunkPayload) error {
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

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (collection, id, doc_id, doc_name, chunk_id, source_link, document, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			doc_id = excluded.doc_id,
			doc_name = excluded.doc_name,
			chunk_id = excluded.chunk_id,
			source_link = excluded.source_link,
			document = excluded.document,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, text := range payload.Texts {
		meta := payload.Metadatas[i]
		if _, err := stmt.ExecContext(ctx, v.collection, payload.IDs[i], meta.DocID, meta.DocName,
			meta.ChunkID, meta.SourceLink, text, float32SliceToBytes(embeddings[i])); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", payload.IDs[i], err)
		}
	}

	return tx.Commit()
}

// DeleteByDoc removes all entries for a document.
func (v *vectorIndex) DeleteByDoc(ctx context.Context, docID string) error {
	n, err := v.Count(ctx)
	if err != nil || n == 0 {
		return err
	}
	if _, err := v.store.db.ExecContext(ctx,
		`DELETE FROM vectors WHERE collection = ? AND doc_id = ?`, v.collection, docID); err != nil {
		return fmt.Errorf("deleting document vectors: %w", err)
	}
	return nil
}

// Reset drops every entry in the collection.
func (v *vectorIndex) Reset(ctx context.Context) error {
	if _, err := v.store.db.ExecContext(ctx, `DELETE FROM vectors WHERE collection = ?`, v.collection); err != nil {
		return fmt.Errorf("resetting collection: %w", err)
	}
	return nil
}

// Count returns the number of entries in the collection.
func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	row := v.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors WHERE collection = ?`, v.collection)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return n, nil
}

// Query returns up to topK entries ordered by decreasing cosine similarity.
func (v *vectorIndex) Query(ctx context.Context, text string, topK int) (domain.QueryResult, error) {
	var result domain.QueryResult

	n, err := v.Count(ctx)
	if err != nil {
		return result, err
	}
	if n == 0 || topK <= 0 {
		return result, nil
	}
	if v.embedder == nil {
		return result, domain.ErrEmbeddingUnavailable
	}

	query, err := v.embedder.Embed(ctx, text)
	if err != nil {
		return result, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT id, doc_id, doc_name, chunk_id, source_link, document, embedding
		FROM vectors WHERE collection = ?
	`, v.collection)
	if err != nil {
		return result, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var (
		ids        []string
		docs       []string
		metas      []domain.ChunkMetadata
		candidates [][]float32
	)
	for rows.Next() {
		var id, document string
		var meta domain.ChunkMetadata
		var blob []byte
		if err := rows.Scan(&id, &meta.DocID, &meta.DocName, &meta.ChunkID,
			&meta.SourceLink, &document, &blob); err != nil {
			return result, fmt.Errorf("scanning vector: %w", err)
		}
		ids = append(ids, id)
		docs = append(docs, document)
		metas = append(metas, meta)
		candidates = append(candidates, bytesToFloat32Slice(blob))
	}
	if err := rows.Err(); err != nil {
		return result, err
	}

	for _, hit := range vecmath.TopK(query, candidates, topK) {
		result.IDs = append(result.IDs, ids[hit.Index])
		result.Documents = append(result.Documents, docs[hit.Index])
		result.Metadatas = append(result.Metadatas, metas[hit.Index])
		result.Scores = append(result.Scores, hit.Score)
	}
	return result, nil
}

// Close is a no-op; the owning Store closes the database.
func (v *vectorIndex) Close() error {
	return nil
}
