package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements Client using Gemini text generation.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  modelName,
	}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	// Gemini has no system role on this path; fold all turns into one prompt.
	var sb strings.Builder
	for _, m := range messages {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.Content)
	}

	temp := float32(temperature)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(sb.String()), &genai.GenerateContentConfig{
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini response was empty")
	}
	return text, nil
}
