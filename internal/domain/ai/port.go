package ai

import "context"

// Usage is the token metering a provider may attach to a response.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response from one generation call. Text is expected to contain a
// JSON object somewhere in it.
type Response struct {
	Text  string
	Usage Usage
}

// Generator port (interface untuk provider LLM)
type Generator interface {
	Generate(ctx context.Context, prompt string) (Response, error)
	Configured() bool
}
