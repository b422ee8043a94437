package llm

import "context"

// Provider defines the interface for interacting with LLM backends.
// Implementations handle protocol-specific details such as request
// formatting, authentication, and response parsing.
type Provider interface {
	// Complete sends a chat completion request and returns the full response.
	Complete(ctx context.Context, messages []Message) (*Response, error)
}

// Config holds common configuration for LLM providers.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     int // seconds, 0 means the provider default
}

// Generate sends a single system instruction plus user prompt and returns
// the generated text. This is the shape every orchestration component
// consumes the collaborator through.
func Generate(ctx context.Context, p Provider, system, prompt string) (string, error) {
	resp, err := p.Complete(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
