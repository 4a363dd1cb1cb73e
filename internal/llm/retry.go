package llm

import (
	"context"
	"errors"
	"time"
)

var errNoClient = errors.New("no llm client configured")

// RetryPolicy bounds repeated completion attempts. The backoff is flat
// between attempts; both knobs come from configuration.
type RetryPolicy struct {
	Retries int
	Backoff time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Retries: 1, Backoff: 300 * time.Millisecond}
}

// Caller wraps a Client with a retry policy and the fallback helpers the
// pipeline components use. A nil Client is tolerated and behaves as a
// permanently failing transport, so every call lands on its fallback.
type Caller struct {
	client Client
	policy RetryPolicy
}

func NewCaller(client Client, policy RetryPolicy) *Caller {
	if policy.Retries < 0 {
		policy.Retries = 0
	}
	return &Caller{client: client, policy: policy}
}

// Complete runs the completion with bounded retries and returns the last
// error if every attempt fails.
func (c *Caller) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	if c.client == nil {
		return "", errNoClient
	}
	var lastErr error
	for attempt := 0; attempt <= c.policy.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.policy.Backoff):
			}
		}
		text, err := c.client.Complete(ctx, messages, temperature)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// TextOr returns the model's raw text, or fallback when every attempt fails.
func (c *Caller) TextOr(ctx context.Context, messages []Message, temperature float64, fallback string) string {
	text, err := c.Complete(ctx, messages, temperature)
	if err != nil {
		return fallback
	}
	return text
}

// JSONOr asks for JSON and parses the response leniently. Transport errors
// and unparseable responses both yield ParseFailure, so callers branch on the
// parse kind alone.
func (c *Caller) JSONOr(ctx context.Context, messages []Message, temperature float64) ParseResult {
	text, err := c.Complete(ctx, messages, temperature)
	if err != nil {
		return ParseResult{Kind: ParseFailure}
	}
	return ParseLoose(text)
}
