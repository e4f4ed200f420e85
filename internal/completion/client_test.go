// internal/completion/client_test.go
package completion

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farm-analysis-api/internal/common/errors"
	"farm-analysis-api/internal/common/logger"
	"farm-analysis-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCompletion = `{
	"id": "chatcmpl-123",
	"model": "gpt-4-0613",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "Summary:\nAll good."}, "finish_reason": "stop"}
	],
	"usage": {"prompt_tokens": 120, "completion_tokens": 80, "total_tokens": 200}
}`

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "gpt-4",
		MaxTokens:   2000,
		Temperature: 0.3,
		Timeout:     timeout,
	}, logger.NewTestLogger(t))
}

func TestCompleteSendsWellFormedRequest(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleCompletion))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 5*time.Second)

	resp, err := client.Complete(context.Background(), "system text", "user text", models.Options{})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4", captured["model"])
	assert.Equal(t, float64(2000), captured["max_tokens"])
	assert.Equal(t, 0.3, captured["temperature"])
	assert.Equal(t, 1.0, captured["top_p"])
	assert.Equal(t, 0.0, captured["frequency_penalty"])
	assert.Equal(t, 0.0, captured["presence_penalty"])

	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 2)
	first := messages[0].(map[string]interface{})
	second := messages[1].(map[string]interface{})
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "system text", first["content"])
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "user text", second["content"])

	assert.Equal(t, "gpt-4-0613", resp.Model)
	assert.Equal(t, "Summary:\nAll good.", resp.Content())
	assert.Equal(t, 200, resp.Usage.TotalTokens)
}

func TestCompleteOptionPrecedence(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(sampleCompletion))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 5*time.Second)

	opts := models.Options{
		Model:            ptrString("gpt-4-turbo"),
		MaxTokens:        ptrInt(500),
		Temperature:      ptrFloat(0.9),
		TopP:             ptrFloat(0.5),
		FrequencyPenalty: ptrFloat(0.7),
		PresencePenalty:  ptrFloat(-0.2),
	}

	_, err := client.Complete(context.Background(), "s", "u", opts)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4-turbo", captured["model"])
	assert.Equal(t, float64(500), captured["max_tokens"])
	assert.Equal(t, 0.9, captured["temperature"])
	assert.Equal(t, 0.5, captured["top_p"])
	assert.Equal(t, 0.7, captured["frequency_penalty"])
	assert.Equal(t, -0.2, captured["presence_penalty"])
}

func TestCompleteUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 5*time.Second)

	_, err := client.Complete(context.Background(), "s", "u", models.Options{})
	require.Error(t, err)

	var upstream *errors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "rate limit exceeded")
	assert.True(t, upstream.Retryable())
}

func TestCompleteTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL, time.Second)

	_, err := client.Complete(context.Background(), "s", "u", models.Options{})
	require.Error(t, err)

	var upstream *errors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusInternalServerError, upstream.StatusCode)
	assert.True(t, upstream.Retryable())
}

func TestCompleteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(sampleCompletion))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 50*time.Millisecond)

	_, err := client.Complete(context.Background(), "s", "u", models.Options{})
	require.Error(t, err)

	var upstream *errors.UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "chatcmpl-1", "model": "gpt-4", "choices": [], "usage": {}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)

	_, err := client.Complete(context.Background(), "s", "u", models.Options{})
	require.Error(t, err)

	var upstream *errors.UpstreamError
	assert.False(t, stderrors.As(err, &upstream), "malformed success bodies are not upstream failures")
	assert.Contains(t, err.Error(), "no choices")
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"https://api.openai.com/v1", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1/", "https://api.openai.com/v1/chat/completions"},
		{"https://proxy.internal/v1/chat/completions", "https://proxy.internal/v1/chat/completions"},
		{"http://localhost:8081", "http://localhost:8081/chat/completions"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, buildURL(tt.base))
	}
}

func ptrString(v string) *string  { return &v }
func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }
