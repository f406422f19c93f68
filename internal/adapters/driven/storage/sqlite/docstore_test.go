package sqlite

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func newTestDocument(id string) *domain.Document {
	return &domain.Document{
		ID:     id,
		Name:   id + ".txt",
		Path:   "/tmp/" + id + ".txt",
		Source: domain.SourceUpload,
		Tables: []string{"a\tb\n1\t2"},
	}
}

func TestDocumentStore_AddGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()

	doc := newTestDocument("doc-1")
	doc.ChunkCount = 3
	doc.SourceLink = "https://example.com/doc-1"
	require.NoError(t, docs.Add(ctx, doc))

	got, err := docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1.txt", got.Name)
	assert.Equal(t, domain.SourceUpload, got.Source)
	assert.Equal(t, "https://example.com/doc-1", got.SourceLink)
	assert.Equal(t, 3, got.ChunkCount)
	assert.Equal(t, []string{"a\tb\n1\t2"}, got.Tables)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestDocumentStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DocumentStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_AddRejectsEmptyID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.DocumentStore().Add(context.Background(), &domain.Document{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_Update(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()
	require.NoError(t, docs.Add(ctx, newTestDocument("doc-1")))

	count := 7
	require.NoError(t, docs.Update(ctx, "doc-1", domain.DocumentUpdate{ChunkCount: &count}))

	got, err := docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.ChunkCount)
	assert.Equal(t, "doc-1.txt", got.Name, "unspecified fields are untouched")
	assert.Len(t, got.Tables, 1)
}

func TestDocumentStore_UpdateMissingIsNoop(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	name := "x"
	err := store.DocumentStore().Update(context.Background(), "missing", domain.DocumentUpdate{Name: &name})
	assert.NoError(t, err)
}

func TestDocumentStore_DeleteAndList(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, docs.Add(ctx, newTestDocument(id)))
	}

	removed, err := docs.Delete(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", removed.ID)

	_, err = docs.Delete(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := docs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
}

func TestDocumentStore_Clear(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()
	require.NoError(t, docs.Add(ctx, newTestDocument("a")))
	require.NoError(t, docs.Add(ctx, newTestDocument("b")))

	removed, err := docs.Clear(ctx)
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	list, err := docs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDocumentStore_ConcurrentUpdates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()
	require.NoError(t, docs.Add(ctx, newTestDocument("doc")))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, docs.Update(ctx, "doc", domain.DocumentUpdate{ChunkCount: &n}))
		}(i)
	}
	wg.Wait()

	got, err := docs.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "doc.txt", got.Name)
	assert.GreaterOrEqual(t, got.ChunkCount, 0)
}
