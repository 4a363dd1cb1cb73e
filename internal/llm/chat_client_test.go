package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatClient_Complete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "hello there"}}]}`))
	}))
	defer srv.Close()

	c := NewChatClient("key-123", "test-model", srv.URL)
	text, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0.1)
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
	assert.Equal(t, "Bearer key-123", gotAuth)
	assert.Equal(t, "test-model", gotBody["model"])
}

func TestChatClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	c := NewChatClient("key", "model", srv.URL)
	_, err := c.Complete(context.Background(), nil, 0)
	assert.Error(t, err)
}

func TestChatClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewChatClient("key", "model", srv.URL)
	_, err := c.Complete(context.Background(), nil, 0)
	assert.Error(t, err)
}

func TestChatClient_MissingCredentials(t *testing.T) {
	c := NewChatClient("", "model", "")
	_, err := c.Complete(context.Background(), nil, 0)
	assert.Error(t, err)

	c = NewChatClient("key", "", "")
	_, err = c.Complete(context.Background(), nil, 0)
	assert.Error(t, err)
}

func TestNewChatClient_EndpointNormalization(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"", "https://api.openai.com/v1/chat/completions"},
		{"https://api.groq.com/openai/v1", "https://api.groq.com/openai/v1/chat/completions"},
		{"http://localhost:8080", "http://localhost:8080/v1/chat/completions"},
		{"http://x/v1/chat/completions", "http://x/v1/chat/completions"},
	}
	for _, tc := range cases {
		c := NewChatClient("k", "m", tc.base)
		assert.Equal(t, tc.want, c.endpoint, "base %q", tc.base)
	}
}
