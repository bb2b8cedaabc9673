package llm

import "context"

// Request carries one completion call. The pipeline always sends a
// single fully rendered prompt.
type Request struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Response is the model's reply plus usage accounting.
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
}

// Client is the chat-model boundary. The answer composer is the only
// production caller.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Name() string
}
