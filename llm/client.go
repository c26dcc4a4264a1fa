package llm

import "context"

// Prompt is one completion request: a system instruction and a user turn.
type Prompt struct {
	System string
	User   string
}

// Client is the generative-model collaborator. Implementations must honor
// context cancellation and return an *errors.AppError with a model code on
// failure so the orchestrator can tell retryable timeouts from terminal
// safety blocks.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Settings configures a concrete client.
type Settings struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}
