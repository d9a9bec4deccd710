// Package llm talks to language model providers and turns their
// answers into classifications and placeholder values.
package llm

import (
	"context"
)

// Client is the minimal chat-completion surface each provider
// implements: one system prompt, one user prompt, one text answer.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config holds configuration for the language model gateway.
type Config struct {
	// Provider selects the backend: "openai" or "anthropic".
	Provider string
	APIKey   string
	// Model overrides the provider's default model.
	Model string
	// BaseURL overrides the provider's API endpoint, for proxies and
	// compatible servers.
	BaseURL string
	// RateLimit is the maximum number of requests per minute.
	RateLimit   int
	Temperature float64
	MaxTokens   int
}
