package llm

import (
	"context"
	"fmt"
	"strings"
)

// Message is a single chat turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// Client is the transport-level completion interface. Implementations must
// return an error on transient failure so callers can retry or fall back.
type Client interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewClient builds a Client for the configured provider. Groq speaks the
// OpenAI chat-completions protocol, so both share one implementation with
// different default endpoints.
func NewClient(ctx context.Context, opts Options) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "groq"
	}

	switch provider {
	case "groq":
		base := opts.BaseURL
		if strings.TrimSpace(base) == "" {
			base = "https://api.groq.com/openai/v1"
		}
		return NewChatClient(opts.APIKey, opts.Model, base), nil
	case "openai":
		return NewChatClient(opts.APIKey, opts.Model, opts.BaseURL), nil
	case "gemini":
		return NewGeminiClient(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", opts.Provider)
	}
}
