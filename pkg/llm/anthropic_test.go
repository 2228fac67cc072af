package llm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluberry-labs/price-engine/pkg/llm"
)

const anthropicSuccessResponse = `{
	"content": [{"type": "text", "text": "{\"price\": 85}"}],
	"model": "claude-haiku-4-20250514",
	"usage": {"input_tokens": 30, "output_tokens": 10}
}`

func TestNewAnthropicBackend_MissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := llm.NewAnthropicBackend("claude-haiku-4-20250514")
	require.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestAnthropicBackend_Generate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		req        llm.GenerateRequest
		wantErr    bool
		wantErrMsg string
		wantResp   string
	}{
		{
			name: "successful generation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(anthropicSuccessResponse))
			},
			req:      llm.GenerateRequest{Prompt: "price this item"},
			wantResp: `{"price": 85}`,
		},
		{
			name: "API error surfaces",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "bad model"}}`))
			},
			req:        llm.GenerateRequest{Prompt: "price this item"},
			wantErr:    true,
			wantErrMsg: "calling anthropic API",
		},
		{
			name: "empty content rejected",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"content": [], "model": "claude-haiku-4-20250514", "usage": {}}`))
			},
			req:        llm.GenerateRequest{Prompt: "price this item"},
			wantErr:    true,
			wantErrMsg: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			b, err := llm.NewAnthropicBackend("claude-haiku-4-20250514",
				llm.WithAnthropicAPIKey("test-key"),
				llm.WithAnthropicBaseURL(srv.URL),
				llm.WithAnthropicHTTPClient(srv.Client()),
			)
			require.NoError(t, err)
			assert.Equal(t, "anthropic", b.Name())

			resp, err := b.Generate(context.Background(), tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp.Content)
			assert.Equal(t, 40, resp.Usage.TotalTokens)
		})
	}
}
