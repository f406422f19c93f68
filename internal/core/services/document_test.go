package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

func seedDocuments(t *testing.T, store *memory.DocumentStore, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, store.Add(context.Background(), &domain.Document{
			ID:     id,
			Name:   id + ".txt",
			Path:   "/uploads/" + id + "_" + id + ".txt",
			Source: domain.SourceUpload,
		}))
	}
}

func TestDocumentService_ListAndGet(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocuments(t, store, "a", "b")
	service := NewDocumentService(store, newMockFileStore(), &mockVectorIndex{})
	ctx := context.Background()

	docs, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)

	doc, err := service.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b.txt", doc.Name)

	_, err = service.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Delete(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocuments(t, store, "a", "b")
	files := newMockFileStore()
	index := &mockVectorIndex{}
	service := NewDocumentService(store, files, index)
	ctx := context.Background()

	doc, err := service.Delete(ctx, "a")

	require.NoError(t, err)
	assert.Equal(t, "a", doc.ID)
	assert.Equal(t, []string{"/uploads/a_a.txt"}, files.removed)
	assert.Equal(t, []string{"a"}, index.deleted)

	docs, _ := service.List(ctx)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].ID)
}

func TestDocumentService_Delete_NotFound(t *testing.T) {
	index := &mockVectorIndex{}
	service := NewDocumentService(memory.NewDocumentStore(), newMockFileStore(), index)

	_, err := service.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, index.deleted)
}

func TestDocumentService_Delete_FileRemovalIsBestEffort(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocuments(t, store, "a")
	files := newMockFileStore()
	files.rmErr = errUpstream
	index := &mockVectorIndex{}
	service := NewDocumentService(store, files, index)

	doc, err := service.Delete(context.Background(), "a")

	require.NoError(t, err)
	assert.Equal(t, "a", doc.ID)
	assert.Equal(t, []string{"a"}, index.deleted)
}

func TestDocumentService_Delete_IndexFailure(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocuments(t, store, "a")
	service := NewDocumentService(store, newMockFileStore(), &mockVectorIndex{deleteErr: errUpstream})

	_, err := service.Delete(context.Background(), "a")

	assert.ErrorIs(t, err, errUpstream)
}

func TestDocumentService_Clear(t *testing.T) {
	store := memory.NewDocumentStore()
	seedDocuments(t, store, "a", "b", "c")
	files := newMockFileStore()
	files.rmErr = errUpstream
	index := &mockVectorIndex{}
	service := NewDocumentService(store, files, index)
	ctx := context.Background()

	n, err := service.Clear(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, files.removed, 3)
	assert.Equal(t, 1, index.resets)

	docs, _ := service.List(ctx)
	assert.Empty(t, docs)
}

func TestDocumentService_Clear_Empty(t *testing.T) {
	index := &mockVectorIndex{}
	service := NewDocumentService(memory.NewDocumentStore(), newMockFileStore(), index)

	n, err := service.Clear(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, index.resets)
}

func TestDocumentService_DeleteRemovesChunksFromRetrieval(t *testing.T) {
	ctx := context.Background()
	files := newMockFileStore()
	docStore := memory.NewDocumentStore()
	index := memory.NewVectorIndex(local.NewEmbeddingService(0))
	ingest := NewIngestService(files, &mockParser{files: files}, chunker.New(), docStore, index)
	documents := NewDocumentService(docStore, files, index)
	chat := NewChatService(index, memory.NewHistoryStore(), nil, ChatConfig{TopK: 4})

	results, err := ingest.IngestFiles(ctx, []driving.UploadedFile{
		{Name: "insulin.txt", Data: []byte("insulin dosage for type one diabetes")},
		{Name: "asthma.txt", Data: []byte("inhaler technique for asthma patients")},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	insulinID := results[0].ID

	_, err = documents.Delete(ctx, insulinID)
	require.NoError(t, err)

	docs, err := documents.List(ctx)
	require.NoError(t, err)
	for _, doc := range docs {
		assert.NotEqual(t, insulinID, doc.ID)
	}

	found, err := chat.Search(ctx, "insulin dosage", 4)
	require.NoError(t, err)
	for _, meta := range found.Metadatas {
		assert.NotEqual(t, insulinID, meta.DocID)
	}
	assert.Equal(t, 1, found.Len())
}
