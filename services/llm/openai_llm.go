package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	grokBaseURL = "https://api.x.ai/v1"
)

// OpenAICompatClient serves every provider that speaks the OpenAI chat
// completions wire format: OpenAI itself, Groq, and xAI's Grok behind their
// respective base URLs.
type OpenAICompatClient struct {
	client *openai.Client
	model  string
	vendor string
}

// NewOpenAIClient creates a client for the OpenAI API.
func NewOpenAIClient(apiKey, model string) *OpenAICompatClient {
	return &OpenAICompatClient{
		client: openai.NewClient(apiKey),
		model:  model,
		vendor: "openai",
	}
}

// NewGroqClient creates a client for Groq's OpenAI-compatible endpoint.
func NewGroqClient(apiKey, model string) *OpenAICompatClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return &OpenAICompatClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		vendor: "groq",
	}
}

// NewGrokClient creates a client for xAI's OpenAI-compatible endpoint.
func NewGrokClient(apiKey, model string) *OpenAICompatClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = grokBaseURL
	return &OpenAICompatClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		vendor: "grok",
	}
}

// Complete implements the Client interface.
func (c *OpenAICompatClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	slog.Debug("Sending chat completion request", "vendor", c.vendor, "model", c.model)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s API call failed: %w", c.vendor, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", c.vendor)
	}
	return resp.Choices[0].Message.Content, nil
}
