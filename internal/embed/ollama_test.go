package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bge-m3", req.Model)

		resp := ollamaEmbedResponse{Embeddings: make([][]float32, len(req.Input))}
		for i := range resp.Embeddings {
			resp.Embeddings[i] = []float32{0.1, 0.2}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("bge-m3", 0, srv.URL)
	vecs, err := e.Embed(context.Background(), []string{"chunk one", "chunk two"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Len(t, vecs[0], 2)

	// Dimension is learned from the first response when unset.
	assert.Equal(t, 2, e.Dimension())
}

func TestOllamaEmbedder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings": [[0.1]]}`))
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("bge-m3", 1024, srv.URL)
	_, err := e.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestOllamaEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("bge-m3", 1024, srv.URL)
	_, err := e.Embed(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestOllamaEmbedder_RequiresModel(t *testing.T) {
	e := NewOllamaEmbedder("", 1024, "")
	_, err := e.Embed(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestOllamaEmbedder_EmptyInput(t *testing.T) {
	e := NewOllamaEmbedder("bge-m3", 1024, "")
	vecs, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
}

func TestNewEmbedder_Factory(t *testing.T) {
	e, err := NewEmbedder(context.Background(), Options{Provider: "ollama", Model: "bge-m3", Dimension: 1024})
	require.NoError(t, err)
	assert.Equal(t, 1024, e.Dimension())

	_, err = NewEmbedder(context.Background(), Options{Provider: "unknown"})
	assert.Error(t, err)
}
