// internal/analysis/requirements/requirements.go

// Package requirements merges caller-supplied analysis preferences over the
// service defaults, producing the complete configuration the rest of the
// pipeline works with.
package requirements

import (
	"farm-analysis-api/internal/models"
)

// Analysis depth levels.
const (
	DepthBasic         = "basic"
	DepthStandard      = "standard"
	DepthComprehensive = "comprehensive"
)

// Priority levels.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Output formats.
const (
	FormatStructured       = "structured"
	FormatNarrative        = "narrative"
	FormatExecutiveSummary = "executive_summary"
)

// Defaults returns the baseline configuration used when the caller supplies
// no preferences.
func Defaults() models.Requirements {
	return models.Requirements{
		Depth:                  DepthStandard,
		FocusAreas:             []string{},
		ExcludeAreas:           []string{},
		CompareToPrevious:      false,
		IncludeRecommendations: true,
		IncludeVisualizations:  false,
		PriorityLevel:          PriorityMedium,
		IndustryStandards:      true,
		RiskAssessment:         true,
		Forecast:               false,
		Format:                 FormatStructured,
	}
}

// Normalize merges the caller's partial preferences over Defaults. A
// recognized key replaces its default only when the value has a usable type;
// unrecognized keys are carried through in Extra. The input map is never
// modified.
func Normalize(partial map[string]any) models.Requirements {
	reqs := Defaults()
	if len(partial) == 0 {
		return reqs
	}

	for key, value := range partial {
		switch key {
		case "depth":
			if s, ok := value.(string); ok {
				reqs.Depth = s
			}
		case "focus_areas":
			if areas, ok := toStringSlice(value); ok {
				reqs.FocusAreas = areas
			}
		case "exclude_areas":
			if areas, ok := toStringSlice(value); ok {
				reqs.ExcludeAreas = areas
			}
		case "compare_to_previous":
			if b, ok := value.(bool); ok {
				reqs.CompareToPrevious = b
			}
		case "include_recommendations":
			if b, ok := value.(bool); ok {
				reqs.IncludeRecommendations = b
			}
		case "include_visualizations":
			if b, ok := value.(bool); ok {
				reqs.IncludeVisualizations = b
			}
		case "priority_level":
			if s, ok := value.(string); ok {
				reqs.PriorityLevel = s
			}
		case "industry_standards":
			if b, ok := value.(bool); ok {
				reqs.IndustryStandards = b
			}
		case "risk_assessment":
			if b, ok := value.(bool); ok {
				reqs.RiskAssessment = b
			}
		case "forecast":
			if b, ok := value.(bool); ok {
				reqs.Forecast = b
			}
		case "format":
			if s, ok := value.(string); ok {
				reqs.Format = s
			}
		case "context":
			if s, ok := value.(string); ok {
				reqs.Context = s
			}
		case "period":
			if p, ok := toPeriod(value); ok {
				reqs.Period = p
			}
		case "benchmarks":
			if m, ok := value.(map[string]any); ok {
				reqs.Benchmarks = cloneMap(m)
			}
		default:
			if reqs.Extra == nil {
				reqs.Extra = make(map[string]any)
			}
			reqs.Extra[key] = value
		}
	}

	return reqs
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func toPeriod(value any) (*models.Period, bool) {
	switch v := value.(type) {
	case map[string]any:
		period := &models.Period{}
		if from, ok := v["from"].(string); ok {
			period.From = from
		}
		if to, ok := v["to"].(string); ok {
			period.To = to
		}
		return period, true
	case models.Period:
		copied := v
		return &copied, true
	case *models.Period:
		if v == nil {
			return nil, false
		}
		copied := *v
		return &copied, true
	}
	return nil, false
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
