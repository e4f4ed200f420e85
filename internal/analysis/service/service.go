// internal/analysis/service/service.go

// Package service orchestrates the analysis pipeline: validation,
// requirement normalization, prompt assembly, the completion call, response
// parsing and result caching.
package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"farm-analysis-api/internal/analysis/extract"
	"farm-analysis-api/internal/analysis/prompt"
	"farm-analysis-api/internal/analysis/requirements"
	"farm-analysis-api/internal/common/errors"
	"farm-analysis-api/internal/common/logger"
	"farm-analysis-api/internal/common/metrics"
	"farm-analysis-api/internal/common/observability"
	"farm-analysis-api/internal/completion"
	"farm-analysis-api/internal/models"
)

// Completer is the outbound completion dependency.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts models.Options) (*completion.Response, error)
}

// ResultCache is the keyed result store dependency. A nil store disables
// caching regardless of configuration.
type ResultCache interface {
	Lookup(ctx context.Context, data map[string]any, analysisType models.AnalysisType, reqs models.Requirements) (string, *models.AnalysisResult, error)
	Put(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error
}

// Service runs analyses end to end.
type Service struct {
	config    Config
	completer Completer
	cache     ResultCache
	obs       *observability.Observability
	logger    logger.Logger
}

func New(cfg Config, completer Completer, cache ResultCache, obs *observability.Observability, log logger.Logger) *Service {
	return &Service{
		config:    cfg,
		completer: completer,
		cache:     cache,
		obs:       obs,
		logger:    log.WithComponent("analysis-service"),
	}
}

// Analyze runs one analysis end to end. Every failure comes back as an
// *errors.AnalysisError carrying the upstream status when one is known.
func (s *Service) Analyze(ctx context.Context, data map[string]any, analysisType models.AnalysisType, partial map[string]any, opts models.Options) (*models.AnalysisResult, error) {
	start := time.Now()

	result, err := s.analyze(ctx, data, analysisType, partial, opts)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.AnalysisRequestsTotal.WithLabelValues(string(analysisType), status).Inc()
	metrics.AnalysisDuration.WithLabelValues(string(analysisType)).Observe(time.Since(start).Seconds())
	if s.obs != nil {
		s.obs.RecordAnalysis(ctx, string(analysisType), status)
		s.obs.RecordAnalysisDuration(ctx, time.Since(start), string(analysisType))
	}

	if err != nil {
		return nil, errors.WrapAnalysis(err)
	}
	return result, nil
}

func (s *Service) analyze(ctx context.Context, data map[string]any, analysisType models.AnalysisType, partial map[string]any, opts models.Options) (*models.AnalysisResult, error) {
	if err := validateRequest(data, analysisType); err != nil {
		return nil, err
	}

	reqs := requirements.Normalize(partial)

	useCache := s.config.CacheEnabled && s.cache != nil && opts.CacheEnabled()

	var cacheKey string
	if useCache {
		key, cached, err := s.cache.Lookup(ctx, data, analysisType, reqs)
		if err != nil {
			s.logger.WithError(err).Warn("cache lookup failed, continuing without cache", map[string]interface{}{
				"analysisType": string(analysisType),
			})
		} else if cached != nil {
			cached.Cached = true
			s.logger.Info("analysis served from cache", map[string]interface{}{
				"analysisType": string(analysisType),
				"cacheKey":     key,
			})
			return cached, nil
		}
		cacheKey = key
	}

	systemPrompt := prompt.BuildSystemPrompt(analysisType)
	userPrompt, err := prompt.BuildUserPrompt(data, analysisType, reqs)
	if err != nil {
		return nil, fmt.Errorf("build user prompt: %w", err)
	}

	resp, err := s.completeWithRetry(ctx, systemPrompt, userPrompt, opts)
	if err != nil {
		return nil, err
	}

	result := buildResult(analysisType, resp)

	metrics.CompletionTokensTotal.WithLabelValues(string(analysisType), "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.CompletionTokensTotal.WithLabelValues(string(analysisType), "completion").Add(float64(resp.Usage.CompletionTokens))

	if useCache && cacheKey != "" {
		if err := s.cache.Put(ctx, cacheKey, result, s.config.CacheTTL); err != nil {
			s.logger.WithError(err).Warn("failed to cache analysis result", map[string]interface{}{
				"cacheKey": cacheKey,
			})
		}
	}

	s.logger.Info("analysis completed", map[string]interface{}{
		"analysisType": string(analysisType),
		"model":        result.ModelUsed,
		"totalTokens":  result.TokensUsed.Total,
	})

	return result, nil
}

// BatchAnalyze runs the single-item flow once per dataset. A failed entry is
// captured as an ErrorRecord under its key; the batch always completes and
// returns one outcome per input key.
func (s *Service) BatchAnalyze(ctx context.Context, datasets map[string]map[string]any, analysisType models.AnalysisType, partial map[string]any, opts models.Options) map[string]any {
	results := make(map[string]any, len(datasets))

	for key, data := range datasets {
		result, err := s.Analyze(ctx, data, analysisType, partial, opts)
		if err != nil {
			s.logger.WithError(err).Warn("batch entry failed", map[string]interface{}{
				"entry":        key,
				"analysisType": string(analysisType),
			})
			results[key] = models.ErrorRecord{Error: true, Message: errors.UserMessage(err)}
			continue
		}
		results[key] = result
	}

	return results
}

// validateRequest enforces the local preconditions before any outbound work.
func validateRequest(data map[string]any, analysisType models.AnalysisType) error {
	if len(data) == 0 {
		return errors.NewEmptyDatasetError()
	}
	if !analysisType.IsValid() {
		return errors.NewUnknownAnalysisTypeError(string(analysisType))
	}

	serialized, err := json.Marshal(data)
	if err != nil {
		return errors.NewInvalidRequestError(fmt.Sprintf("dataset is not serializable: %v", err))
	}
	if len(serialized) > errors.MaxDatasetBytes {
		return errors.NewDatasetTooLargeError(len(serialized))
	}

	return nil
}

// completeWithRetry layers the advisory retry policy over the single-attempt
// client: retryable upstream failures get up to the configured number of
// attempts with exponential backoff, everything else fails immediately.
func (s *Service) completeWithRetry(ctx context.Context, systemPrompt, userPrompt string, opts models.Options) (*completion.Response, error) {
	attempts := s.config.RetryMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			backoff := s.config.RetryDelay * time.Duration(1<<(attempt-2))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.NewUpstreamTransportError(ctx.Err())
			}
			s.logger.Info("retrying completion call", map[string]interface{}{
				"attempt": attempt,
				"backoff": backoff.String(),
			})
		}

		resp, err := s.completer.Complete(ctx, systemPrompt, userPrompt, opts)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var upstream *errors.UpstreamError
		if !stderrors.As(err, &upstream) || !upstream.Retryable() {
			return nil, err
		}
	}

	return nil, lastErr
}

// buildResult assembles the caller-facing record from the raw completion.
func buildResult(analysisType models.AnalysisType, resp *completion.Response) *models.AnalysisResult {
	content := resp.Content()

	modelUsed := resp.Model
	if modelUsed == "" {
		modelUsed = models.UnknownModel
	}

	return &models.AnalysisResult{
		AnalysisType: analysisType,
		Content:      content,
		ModelUsed:    modelUsed,
		TokensUsed: models.TokenUsage{
			Prompt:     resp.Usage.PromptTokens,
			Completion: resp.Usage.CompletionTokens,
			Total:      resp.Usage.TotalTokens,
		},
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		ParsedInsights: extract.Extract(content),
	}
}
