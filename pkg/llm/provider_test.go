package llm

import (
	"context"
	"errors"
	"testing"
)

// MockProvider is a test double that satisfies the Provider interface.
type MockProvider struct {
	CompleteFunc func(ctx context.Context, messages []Message) (*Response, error)
}

func (m *MockProvider) Complete(ctx context.Context, messages []Message) (*Response, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}
	return &Response{Content: "mock response"}, nil
}

func TestProviderInterface(t *testing.T) {
	var provider Provider = &MockProvider{}
	ctx := context.Background()
	messages := []Message{{Role: "user", Content: "test"}}

	resp, err := provider.Complete(ctx, messages)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content == "" {
		t.Error("expected non-empty response")
	}
}

func TestGenerateMessageShape(t *testing.T) {
	var captured []Message
	mock := &MockProvider{
		CompleteFunc: func(ctx context.Context, messages []Message) (*Response, error) {
			captured = messages
			return &Response{Content: "generated"}, nil
		},
	}

	out, err := Generate(context.Background(), mock, "be terse", "say hi")
	if err != nil {
		t.Fatal(err)
	}
	if out != "generated" {
		t.Errorf("expected 'generated', got %q", out)
	}

	if len(captured) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(captured))
	}
	if captured[0].Role != "system" || captured[0].Content != "be terse" {
		t.Errorf("unexpected system message: %+v", captured[0])
	}
	if captured[1].Role != "user" || captured[1].Content != "say hi" {
		t.Errorf("unexpected user message: %+v", captured[1])
	}
}

func TestGeneratePropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	mock := &MockProvider{
		CompleteFunc: func(ctx context.Context, messages []Message) (*Response, error) {
			return nil, wantErr
		},
	}

	_, err := Generate(context.Background(), mock, "sys", "prompt")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}
