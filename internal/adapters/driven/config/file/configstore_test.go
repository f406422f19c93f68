package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "groq"))

	val, ok := store.Get("llm.provider")
	assert.True(t, ok)
	assert.Equal(t, "groq", val)
	assert.Equal(t, "groq", store.GetString("llm.provider"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("retrieval.top_k", 7))
	require.NoError(t, store.Set("retrieval.name", "x"))

	assert.Equal(t, 7, store.GetInt("retrieval.top_k"))
	assert.Zero(t, store.GetInt("retrieval.name"))
}

func TestConfigStore_Persistence_UsesTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("retrieval.chunk_size", 500))
	require.NoError(t, store.Set("http_addr", ":9000"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), "[retrieval]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", store2.GetString("llm.provider"))
	assert.Equal(t, 500, store2.GetInt("retrieval.chunk_size"))
	assert.Equal(t, ":9000", store2.GetString("http_addr"))
	assert.Equal(t, []string{"http_addr", "llm.provider", "retrieval.chunk_size"}, store2.Keys())
}

func TestConfigStore_Set_InvalidKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", ".a", "a."} {
		assert.ErrorIs(t, store.Set(key, 1), domain.ErrInvalidInput, key)
	}
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("key", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.top_k", n)
			_ = store.GetInt("retrieval.top_k")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("retrieval.top_k")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"e":     true,
	})

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "x"},
		},
		"e": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "e": true}, flattenMap(nested, ""))
}
