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

func TestNewClientUnsupportedProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "bard", APIKey: "k"})
	require.Error(t, err)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{Provider: "openai"})
	require.Error(t, err)

	_, err = NewClient(Config{Provider: "anthropic"})
	require.Error(t, err)
}

func TestOpenAIComplete(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": `{"category": "Invoices"}`}},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Provider: "openai",
		APIKey:   "test-key",
		Model:    "gpt-4.1",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)

	content, err := client.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"category": "Invoices"}`, content)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4.1", gotBody["model"])

	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first, ok := messages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "system prompt", first["content"])
}

func TestOpenAICompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "openai", APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAnthropicComplete(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": `{"company": "Acme"}`},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Provider: "anthropic",
		APIKey:   "test-key",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)

	content, err := client.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"company": "Acme"}`, content)

	assert.Equal(t, "/messages", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, "system prompt", gotBody["system"])
}

func TestAnthropicCompleteEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "anthropic", APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "s", "u")
	require.Error(t, err)
}
