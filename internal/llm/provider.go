package llm

import (
	"context"
	"fmt"
)

// Provider sends chat completion requests to a model backend.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

// Completer is the text-in, text-out capability the search pipeline needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PromptCompleter sends a single user prompt through a Provider.
type PromptCompleter struct {
	Provider    Provider
	Temperature float64
	MaxTokens   int
}

// NewCompleter returns a Completer over p sampling at temperature.
func NewCompleter(p Provider, temperature float64, maxTokens int) *PromptCompleter {
	return &PromptCompleter{Provider: p, Temperature: temperature, MaxTokens: maxTokens}
}

func (c *PromptCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.Provider.Complete(ctx, CompletionRequest{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", c.Provider.Name(), err)
	}
	return resp.Content, nil
}
