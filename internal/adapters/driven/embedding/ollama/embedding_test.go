package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)

		out := make([][]float64, len(req.Input))
		for i := range req.Input {
			out[i] = []float64{float64(i), 0.5, 0.25}
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: out})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Model: "all-minilm"})
	assert.Equal(t, 384, svc.Dimensions())

	got, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, float32(1), got[1][0])
	assert.Equal(t, 3, svc.Dimensions())
}

func TestEmbed_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer server.Close()

	_, err := NewEmbeddingService(Config{BaseURL: server.URL}).Embed(context.Background(), "x")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.NoError(t, NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background()))
}

func TestEmbed_Concurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		out := make([][]float64, len(req.Input))
		for i := range req.Input {
			out[i] = []float64{0.1, 0.2}
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: out})
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Embed(context.Background(), "text"); err != nil {
				errs <- err
			}
			_ = svc.Dimensions()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 2, svc.Dimensions())
}
