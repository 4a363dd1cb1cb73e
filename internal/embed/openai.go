package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	openAIBatchSize  = 64
	openAIBatchDelay = 400 * time.Millisecond
	openAIRetries    = 5
	openAIRetryDelay = 3 * time.Second
)

type OpenAIEmbedder struct {
	client    *http.Client
	apiKey    string
	model     string
	dimension int
	endpoint  string
}

type openAIEmbedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions *int     `json:"dimensions,omitempty"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func NewOpenAIEmbedder(apiKey, model string, dim int, baseURL string) *OpenAIEmbedder {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1/embeddings"
	}
	return &OpenAIEmbedder{
		client:    &http.Client{Timeout: 60 * time.Second},
		apiKey:    apiKey,
		model:     model,
		dimension: dim,
		endpoint:  endpoint,
	}
}

func (o *OpenAIEmbedder) Dimension() int { return o.dimension }

func (o *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if strings.TrimSpace(o.apiKey) == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if strings.TrimSpace(o.model) == "" {
		return nil, fmt.Errorf("openai embedding model is required")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += openAIBatchSize {
		if i > 0 && !waitOrCancel(ctx, openAIBatchDelay) {
			return nil, ctx.Err()
		}
		end := min(i+openAIBatchSize, len(texts))
		vecs, err := o.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (o *OpenAIEmbedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	payload := openAIEmbedRequest{Model: o.model, Input: batch}
	if o.dimension > 0 {
		payload.Dimensions = &o.dimension
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= openAIRetries; attempt++ {
		if attempt > 0 && !waitOrCancel(ctx, openAIRetryDelay) {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}

		// Retry rate limits and server errors; everything else is final.
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("openai embeddings request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("openai embeddings request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}

		var parsed openAIEmbedResponse
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, err
		}
		if len(parsed.Data) != len(batch) {
			return nil, fmt.Errorf("embedding count mismatch: got %d, expected %d", len(parsed.Data), len(batch))
		}
		out := make([][]float32, len(batch))
		for _, item := range parsed.Data {
			if item.Index >= 0 && item.Index < len(batch) {
				out[item.Index] = item.Embedding
			}
		}
		for i := range out {
			if len(out[i]) == 0 {
				return nil, fmt.Errorf("embedding missing at index %d", i)
			}
		}
		return out, nil
	}
	return nil, lastErr
}
