package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicBackend implements Backend using the Anthropic Messages API.
// Anthropic has no JSON response mode; the prompt has to ask for JSON and
// the caller has to tolerate surrounding prose.
type AnthropicBackend struct {
	client anthropic.Client
	model  string
}

// AnthropicOption configures the AnthropicBackend.
type AnthropicOption func(*anthropicSettings)

type anthropicSettings struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// WithAnthropicAPIKey sets the API key explicitly instead of reading the
// ANTHROPIC_API_KEY environment variable.
func WithAnthropicAPIKey(key string) AnthropicOption {
	return func(s *anthropicSettings) {
		s.apiKey = key
	}
}

// WithAnthropicBaseURL overrides the default API endpoint.
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(s *anthropicSettings) {
		s.baseURL = url
	}
}

// WithAnthropicHTTPClient overrides the default HTTP client.
func WithAnthropicHTTPClient(c *http.Client) AnthropicOption {
	return func(s *anthropicSettings) {
		s.httpClient = c
	}
}

// NewAnthropicBackend creates an Anthropic backend. Returns ErrMissingAPIKey
// when no key is set explicitly or via ANTHROPIC_API_KEY.
func NewAnthropicBackend(model string, opts ...AnthropicOption) (*AnthropicBackend, error) {
	settings := anthropicSettings{
		apiKey: os.Getenv("ANTHROPIC_API_KEY"),
	}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.apiKey == "" {
		return nil, fmt.Errorf("anthropic backend: %w", ErrMissingAPIKey)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(settings.apiKey)}
	if settings.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(settings.baseURL))
	}
	if settings.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(settings.httpClient))
	}

	return &AnthropicBackend{
		client: anthropic.NewClient(clientOpts...),
		model:  model,
	}, nil
}

// Name returns the backend name.
func (*AnthropicBackend) Name() string {
	return "anthropic"
}

// Generate calls the Messages API and concatenates the text blocks.
func (b *AnthropicBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.SystemMsg != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemMsg}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	message, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("calling anthropic API: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		sb.WriteString(block.Text)
	}
	if sb.Len() == 0 {
		return GenerateResponse{}, fmt.Errorf("empty response from anthropic API")
	}

	return GenerateResponse{
		Content: sb.String(),
		Model:   string(message.Model),
		Usage: TokenUsage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
			TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
		},
	}, nil
}
