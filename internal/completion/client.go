// internal/completion/client.go

// Package completion is the HTTP client for the OpenAI-compatible chat
// completion endpoint.
package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"farm-analysis-api/internal/common/errors"
	httpclient "farm-analysis-api/internal/common/http"
	"farm-analysis-api/internal/common/logger"
	"farm-analysis-api/internal/common/metrics"
	"farm-analysis-api/internal/models"
)

// maxResponseSize limits the completion response body read into memory.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

const completionsPath = "/chat/completions"

// defaultTopP and the zero penalties are the provider's own defaults; they
// are only overridden per call, never via service configuration.
const defaultTopP = 1.0

// Config carries the transport settings for the completion endpoint.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client calls the chat completion endpoint. Each Complete call is a single
// attempt bounded by the configured timeout; retry policy belongs to the
// caller.
type Client struct {
	config Config
	http   *httpclient.Client
	url    string
	logger logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		http:   httpclient.NewClient(cfg.Timeout),
		url:    buildURL(cfg.BaseURL),
		logger: log.WithComponent("completion-client"),
	}
}

// buildURL normalizes the configured base URL into the completions endpoint
// without doubling the path when the base already carries it.
func buildURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, completionsPath) {
		return baseURL
	}
	return baseURL + completionsPath
}

// Complete sends one system+user prompt pair and returns the parsed
// response. Per-call options take precedence over the configured defaults.
// Failures reaching the endpoint or non-2xx statuses come back as
// *errors.UpstreamError.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, opts models.Options) (*Response, error) {
	request := c.buildRequest(systemPrompt, userPrompt, opts)

	start := time.Now()
	resp, err := c.http.PostJSON(ctx, c.url, map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
	}, request)
	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues("transport_error").Inc()
		c.logger.WithError(err).Error("completion request failed", map[string]interface{}{
			"model": request.Model,
		})
		return nil, errors.NewUpstreamTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, errors.NewUpstreamTransportError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.CompletionRequestsTotal.WithLabelValues("upstream_error").Inc()
		c.logger.Warn("completion endpoint returned error status", map[string]interface{}{
			"status": resp.StatusCode,
			"model":  request.Model,
		})
		return nil, errors.NewUpstreamStatusError(resp.StatusCode, string(body))
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues("empty_response").Inc()
		return nil, fmt.Errorf("completion response contained no choices")
	}

	metrics.CompletionRequestsTotal.WithLabelValues("success").Inc()
	c.logger.Debug("completion succeeded", map[string]interface{}{
		"model":       parsed.Model,
		"totalTokens": parsed.Usage.TotalTokens,
		"durationMs":  time.Since(start).Milliseconds(),
	})

	return &parsed, nil
}

func (c *Client) buildRequest(systemPrompt, userPrompt string, opts models.Options) chatRequest {
	request := chatRequest{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:        c.config.MaxTokens,
		Temperature:      c.config.Temperature,
		TopP:             defaultTopP,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
	}

	if opts.Model != nil && *opts.Model != "" {
		request.Model = *opts.Model
	}
	if opts.MaxTokens != nil && *opts.MaxTokens > 0 {
		request.MaxTokens = *opts.MaxTokens
	}
	if opts.Temperature != nil {
		request.Temperature = *opts.Temperature
	}
	if opts.TopP != nil {
		request.TopP = *opts.TopP
	}
	if opts.FrequencyPenalty != nil {
		request.FrequencyPenalty = *opts.FrequencyPenalty
	}
	if opts.PresencePenalty != nil {
		request.PresencePenalty = *opts.PresencePenalty
	}

	return request
}
