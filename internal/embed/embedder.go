package embed

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Embedder converts documentation chunks to vectors for indexing.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

type Options struct {
	Provider  string
	APIKey    string
	Model     string
	Dimension int
	BaseURL   string
}

// NewEmbedder builds the configured embedding provider. Ollama is the
// default so a local bge-m3 model works with zero credentials.
func NewEmbedder(ctx context.Context, opts Options) (Embedder, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "ollama":
		return NewOllamaEmbedder(opts.Model, opts.Dimension, opts.BaseURL), nil
	case "openai":
		return NewOpenAIEmbedder(opts.APIKey, opts.Model, opts.Dimension, opts.BaseURL), nil
	case "gemini":
		return NewGeminiEmbedder(ctx, opts.APIKey, opts.Model, opts.Dimension)
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", opts.Provider)
	}
}

func waitOrCancel(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
