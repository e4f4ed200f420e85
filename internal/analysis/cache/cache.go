// internal/analysis/cache/cache.go

// Package cache derives deterministic result keys and stores analysis
// results in Redis with a per-entry TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"farm-analysis-api/internal/common/logger"
	"farm-analysis-api/internal/common/metrics"
	"farm-analysis-api/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "analysis:result:"

// Store is the Redis-backed result cache.
type Store struct {
	redis  *redis.Client
	logger logger.Logger
}

func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		redis:  client,
		logger: log.WithComponent("result-cache"),
	}
}

// keyPayload is the canonical fingerprint serialized for key derivation.
// Dataset and requirements are pre-hashed so key derivation cost does not
// grow with input size.
type keyPayload struct {
	Type             models.AnalysisType `json:"type"`
	DataHash         string              `json:"dataHash"`
	RequirementsHash string              `json:"requirementsHash"`
}

// KeyFor derives the cache key for one analysis request. Equal inputs yield
// equal keys regardless of map key ordering, since JSON object keys are
// serialized sorted.
func (s *Store) KeyFor(data map[string]any, analysisType models.AnalysisType, reqs models.Requirements) (string, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("serialize dataset for key: %w", err)
	}
	reqsJSON, err := json.Marshal(reqs)
	if err != nil {
		return "", fmt.Errorf("serialize requirements for key: %w", err)
	}

	payload, err := json.Marshal(keyPayload{
		Type:             analysisType,
		DataHash:         hashHex(dataJSON),
		RequirementsHash: hashHex(reqsJSON),
	})
	if err != nil {
		return "", fmt.Errorf("serialize key payload: %w", err)
	}

	return keyPrefix + hashHex(payload), nil
}

// Get returns the stored result for key. A miss is reported via the bool,
// not an error. Entries that no longer decode behave like misses.
func (s *Store) Get(ctx context.Context, key string) (*models.AnalysisResult, bool, error) {
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues("get", "miss").Inc()
			return nil, false, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues("get", "error").Inc()
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues("get", "corrupt").Inc()
		s.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
		return nil, false, nil
	}

	metrics.CacheOperationsTotal.WithLabelValues("get", "hit").Inc()
	return &result, true, nil
}

// Put stores result under key for ttl.
func (s *Store) Put(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("serialize result for cache: %w", err)
	}

	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues("set", "error").Inc()
		return fmt.Errorf("cache set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues("set", "ok").Inc()
	return nil
}

// Lookup derives the request's key and fetches any stored result. The key is
// returned even on a miss so the caller can write back to it later.
func (s *Store) Lookup(ctx context.Context, data map[string]any, analysisType models.AnalysisType, reqs models.Requirements) (string, *models.AnalysisResult, error) {
	key, err := s.KeyFor(data, analysisType, reqs)
	if err != nil {
		return "", nil, err
	}

	result, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return key, nil, err
	}
	return key, result, nil
}

func hashHex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
