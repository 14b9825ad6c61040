package llm

import "context"

// CompletionRequest carries one chat completion call to a provider backend.
// System may be empty for raw queries (population estimation).
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Client is the standard interface for any LLM provider backend.
//
// Implementations issue exactly one outbound call per Complete invocation
// and return the raw text of the first choice. No retries happen at this
// layer; the pipeline surfaces transport failures directly.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Default generation parameters for market analysis traffic. Moderation
// uses its own, tighter budget (see services/moderation).
const (
	DefaultTemperature float32 = 0.3
	DefaultMaxTokens           = 1024
)
