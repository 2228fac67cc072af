// Package llm abstracts LLM text generation behind a small interface so the
// AI estimator can run against OpenAI, Anthropic, or a local Ollama model.
package llm

import (
	"context"
	"errors"
)

// FormatJSON requests JSON mode from backends that support it.
const FormatJSON = "json"

// ErrMissingAPIKey indicates a hosted backend was selected without its API
// key present. This is a deployment problem and is surfaced at construction,
// never swallowed at request time.
var ErrMissingAPIKey = errors.New("missing API key")

// GenerateRequest defines the input for a generation call.
type GenerateRequest struct {
	Prompt      string
	SystemMsg   string
	Format      string // FormatJSON for JSON mode
	Temperature float64
	MaxTokens   int
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResponse holds the result of a generation call.
type GenerateResponse struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// Backend defines the interface for LLM text generation.
type Backend interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}
