// Package llm provides provider-agnostic access to chat completion APIs.
package llm

import "context"

// Client defines the interface for LLM providers. Providers return the raw
// completion text; callers own prompt construction and response parsing.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds provider selection and tuning knobs.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	RateLimit   int
}
