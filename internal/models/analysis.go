// internal/models/analysis.go
package models

import (
	"encoding/json"
	"strings"
)

// AnalysisType selects the domain instruction set used for an analysis.
type AnalysisType string

const (
	AnalysisTypePoultryLaying   AnalysisType = "poultry_laying"
	AnalysisTypePoultryHatching AnalysisType = "poultry_hatching"
	AnalysisTypePoultryFeeding  AnalysisType = "poultry_feeding"
	AnalysisTypeSwineBreeding   AnalysisType = "swine_breeding"
	AnalysisTypeSwineFarrowing  AnalysisType = "swine_farrowing"
	AnalysisTypeSwineFeeding    AnalysisType = "swine_feeding"
	AnalysisTypeSales           AnalysisType = "sales_analysis"
	AnalysisTypeGeneral         AnalysisType = "general"
)

// UnknownModel is reported when the completion endpoint omits the model id.
const UnknownModel = "unknown"

// AllAnalysisTypes returns the supported types in their canonical order.
func AllAnalysisTypes() []AnalysisType {
	return []AnalysisType{
		AnalysisTypePoultryLaying,
		AnalysisTypePoultryHatching,
		AnalysisTypePoultryFeeding,
		AnalysisTypeSwineBreeding,
		AnalysisTypeSwineFarrowing,
		AnalysisTypeSwineFeeding,
		AnalysisTypeSales,
		AnalysisTypeGeneral,
	}
}

// IsValid reports whether t is one of the supported analysis types.
func (t AnalysisType) IsValid() bool {
	switch t {
	case AnalysisTypePoultryLaying, AnalysisTypePoultryHatching, AnalysisTypePoultryFeeding,
		AnalysisTypeSwineBreeding, AnalysisTypeSwineFarrowing, AnalysisTypeSwineFeeding,
		AnalysisTypeSales, AnalysisTypeGeneral:
		return true
	}
	return false
}

// DisplayName renders the type for prompt headers: underscores become
// spaces and each word is capitalized ("swine_farrowing" -> "Swine Farrowing").
func (t AnalysisType) DisplayName() string {
	words := strings.Split(string(t), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Period bounds an analysis window. Either endpoint may be empty.
type Period struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Requirements is a fully normalized analysis configuration. Instances are
// built by the requirements package and treated as immutable afterwards.
type Requirements struct {
	Depth                  string         `json:"depth"`
	FocusAreas             []string       `json:"focus_areas"`
	ExcludeAreas           []string       `json:"exclude_areas"`
	CompareToPrevious      bool           `json:"compare_to_previous"`
	IncludeRecommendations bool           `json:"include_recommendations"`
	IncludeVisualizations  bool           `json:"include_visualizations"`
	PriorityLevel          string         `json:"priority_level"`
	IndustryStandards      bool           `json:"industry_standards"`
	RiskAssessment         bool           `json:"risk_assessment"`
	Forecast               bool           `json:"forecast"`
	Format                 string         `json:"format"`
	Context                string         `json:"context,omitempty"`
	Period                 *Period        `json:"period,omitempty"`
	Benchmarks             map[string]any `json:"benchmarks,omitempty"`

	// Extra carries unrecognized keys from the caller's partial requirements.
	// They are preserved verbatim for forward compatibility.
	Extra map[string]any `json:"-"`
}

// MarshalJSON flattens Extra back into the top-level object so the serialized
// record matches the caller's flat mapping. Known fields win on key clashes.
func (r Requirements) MarshalJSON() ([]byte, error) {
	type plain Requirements
	base, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}
	var merged map[string]any
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range r.Extra {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// TokenUsage mirrors the completion endpoint's usage accounting. Counters the
// endpoint omits stay at zero.
type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

// ParsedInsights holds the marker-delimited sections sliced out of the model
// output. Any field may be empty when its marker was missing.
type ParsedInsights struct {
	Summary         string `json:"summary"`
	KeyFindings     string `json:"key_findings"`
	Recommendations string `json:"recommendations"`
	Risks           string `json:"risks"`
	Opportunities   string `json:"opportunities"`
}

// AnalysisResult is the outcome of one analysis run.
type AnalysisResult struct {
	AnalysisType   AnalysisType   `json:"analysisType"`
	Content        string         `json:"content"`
	ModelUsed      string         `json:"modelUsed"`
	TokensUsed     TokenUsage     `json:"tokensUsed"`
	Timestamp      string         `json:"timestamp"`
	ParsedInsights ParsedInsights `json:"parsedInsights"`
	Cached         bool           `json:"cached"`
}

// Options are per-call transport overrides. Nil fields fall back to the
// service-level configured defaults.
type Options struct {
	Model            *string  `json:"model,omitempty"`
	MaxTokens        *int     `json:"maxTokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	FrequencyPenalty *float64 `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float64 `json:"presencePenalty,omitempty"`
	Cache            *bool    `json:"cache,omitempty"`
}

// CacheEnabled reports whether caching is requested for this call. Caching
// defaults to on; only an explicit false disables it.
func (o Options) CacheEnabled() bool {
	return o.Cache == nil || *o.Cache
}

// ErrorRecord marks a failed entry in a batch result mapping.
type ErrorRecord struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}
