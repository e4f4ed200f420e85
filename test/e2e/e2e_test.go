// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"farm-analysis-api/internal/analysis/cache"
	"farm-analysis-api/internal/analysis/service"
	"farm-analysis-api/internal/common/config"
	"farm-analysis-api/internal/common/database"
	"farm-analysis-api/internal/common/logger"
	"farm-analysis-api/internal/completion"
	"farm-analysis-api/internal/models"
	"farm-analysis-api/internal/server"
	"farm-analysis-api/pkg/catalog"
)

// stubAnalysis is what the fake completion endpoint answers with. It carries
// every section marker so insight extraction is covered end to end.
const stubAnalysis = `Summary:
Laying performance is strong at 91% with feed conversion slightly above target.

Key Findings:
- Hen-day production held between 89% and 92% across all houses.
- Feed conversion of 2.1 kg/kg is 0.1 above the breed standard.

Recommendations:
- Critical (immediate action required): recalibrate feeder chains in house 3.
- Important (address within 30 days): review calcium particle size in the layer ration.

Risks:
Heat stress during the upcoming summer peak may depress intake.

Opportunities:
Shifting second-grade eggs into the liquid egg channel could recover margin.`

// ==========================
// Fake completion endpoint
// ==========================

type upstreamStub struct {
	mu         sync.Mutex
	hits       int
	failStatus int
	failBody   string

	lastAuth  string
	lastModel string
}

func (u *upstreamStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.hits++
		u.lastAuth = r.Header.Get("Authorization")

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			u.lastModel, _ = req["model"].(string)
		}
		failStatus, failBody := u.failStatus, u.failBody
		u.mu.Unlock()

		if failStatus != 0 {
			w.WriteHeader(failStatus)
			w.Write([]byte(failBody))
			return
		}

		resp := map[string]any{
			"id":    "chatcmpl-e2e-1",
			"model": "gpt-4-0613",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": stubAnalysis},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{
				"prompt_tokens":     210,
				"completion_tokens": 160,
				"total_tokens":      370,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func (u *upstreamStub) hitCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits
}

// ==========================
// In-process stack
// ==========================

type testEnv struct {
	api      *httptest.Server
	upstream *upstreamStub
	redis    *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stub := &upstreamStub{}
	upstreamSrv := httptest.NewServer(stub.handler())
	t.Cleanup(upstreamSrv.Close)

	mr := miniredis.RunT(t)
	log := logger.NewStructured("info", "json")

	rdb, err := database.NewRedis(config.RedisConfig{Address: mr.Addr(), PoolSize: 10, MinIdleConns: 2})
	require.NoError(t, err)
	require.NoError(t, rdb.Ping(context.Background()))
	t.Cleanup(func() { rdb.Close() })

	store := cache.NewStore(rdb.GetClient(), log)

	completer := completion.NewClient(completion.Config{
		BaseURL:     upstreamSrv.URL,
		APIKey:      "e2e-test-key",
		Model:       "gpt-4",
		MaxTokens:   2000,
		Temperature: 0.3,
		Timeout:     5 * time.Second,
	}, log)

	svc := service.New(service.Config{
		CacheEnabled:     true,
		CacheTTL:         time.Hour,
		RetryMaxAttempts: 1,
		RetryDelay:       time.Millisecond,
	}, completer, store, nil, log)

	cfg := &config.Config{
		App: config.AppConfig{Name: "farm-analysis-api", Version: "1.2.0", Environment: "test"},
	}
	srv := server.New(cfg, svc, catalog.Build(), zap.NewNop(), log)

	api := httptest.NewServer(srv.Handler())
	t.Cleanup(api.Close)

	return &testEnv{api: api, upstream: stub, redis: mr}
}

func (e *testEnv) post(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(e.api.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(e.api.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

const analyzeBody = `{
	"analysisType": "poultry_laying",
	"data": {
		"flock": "A-12",
		"hens_housed": 24000,
		"laying_rate": 0.91,
		"feed_conversion": 2.1
	},
	"requirements": {"depth": "comprehensive", "focus_areas": ["feed efficiency"]}
}`

// ==========================
// Tests
// ==========================

func TestAnalyzeEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	resp, out := env.post(t, "/api/v1/analysis", analyzeBody)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	result, ok := out["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "poultry_laying", result["analysisType"])
	assert.Equal(t, stubAnalysis, result["content"])
	assert.Equal(t, "gpt-4-0613", result["modelUsed"])
	assert.Equal(t, false, result["cached"])

	tokens, ok := result["tokensUsed"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(210), tokens["prompt"])
	assert.Equal(t, float64(370), tokens["total"])

	insights, ok := result["parsedInsights"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Laying performance is strong at 91% with feed conversion slightly above target.", insights["summary"])
	assert.Contains(t, insights["recommendations"], "recalibrate feeder chains")
	assert.Contains(t, insights["risks"], "Heat stress")

	ts, ok := result["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)

	// The fake endpoint saw an authenticated OpenAI-style request.
	assert.Equal(t, "Bearer e2e-test-key", env.upstream.lastAuth)
	assert.Equal(t, "gpt-4", env.upstream.lastModel)
}

func TestAnalyzeServesRepeatFromCache(t *testing.T) {
	env := newTestEnv(t)

	_, first := env.post(t, "/api/v1/analysis", analyzeBody)
	resp, second := env.post(t, "/api/v1/analysis", analyzeBody)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, env.upstream.hitCount(), "identical requests must reuse the cached result")

	firstResult := first["result"].(map[string]any)
	secondResult := second["result"].(map[string]any)
	assert.Equal(t, false, firstResult["cached"])
	assert.Equal(t, true, secondResult["cached"])
	assert.Equal(t, firstResult["content"], secondResult["content"])
	assert.Equal(t, firstResult["parsedInsights"], secondResult["parsedInsights"])
}

func TestAnalyzeCacheExpiry(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, "/api/v1/analysis", analyzeBody)
	env.redis.FastForward(2 * time.Hour)
	_, out := env.post(t, "/api/v1/analysis", analyzeBody)

	assert.Equal(t, 2, env.upstream.hitCount())
	result := out["result"].(map[string]any)
	assert.Equal(t, false, result["cached"])
}

func TestBatchAnalyzeEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"analysisType": "poultry_laying",
		"datasets": {
			"north_barn": {"laying_rate": 0.91, "hens_housed": 24000},
			"south_barn": {}
		}
	}`
	resp, out := env.post(t, "/api/v1/analysis/batch", body)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])

	results, ok := out["results"].(map[string]any)
	require.True(t, ok)
	require.Len(t, results, 2)

	north, ok := results["north_barn"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, stubAnalysis, north["content"])

	// The empty dataset fails validation but must not sink the batch.
	south, ok := results["south_barn"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, south["error"])
	assert.Equal(t, "data for analysis is required", south["message"])

	assert.Equal(t, 1, env.upstream.hitCount(), "only the valid dataset reaches the completion endpoint")
}

func TestAnalyzeSurfacesUpstreamStatus(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.failStatus = http.StatusUnauthorized
	env.upstream.failBody = `{"error": {"message": "Incorrect API key provided"}}`

	resp, out := env.post(t, "/api/v1/analysis", analyzeBody)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "status 401")
}

func TestAnalyzeRejectsBadShape(t *testing.T) {
	env := newTestEnv(t)

	resp, out := env.post(t, "/api/v1/analysis", `{"data": {"flock": "A-12"}}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, 0, env.upstream.hitCount())
}

func TestListTypesEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	resp, out := env.get(t, "/api/v1/analysis/types")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	types, ok := out["types"].([]any)
	require.True(t, ok)
	assert.Len(t, types, len(models.AllAnalysisTypes()))
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, out := env.get(t, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", out["status"])
	assert.Equal(t, "farm-analysis-api", out["service"])

	resp, out = env.get(t, "/ready")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", out["status"])
}
