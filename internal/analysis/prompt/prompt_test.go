// internal/analysis/prompt/prompt_test.go
package prompt

import (
	"strings"
	"testing"

	"farm-analysis-api/internal/analysis/requirements"
	"farm-analysis-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt(t *testing.T) {
	for _, analysisType := range models.AllAnalysisTypes() {
		out := BuildSystemPrompt(analysisType)
		assert.Contains(t, out, "expert agricultural operations analyst")
		assert.Contains(t, out, analysisInstructions[analysisType])
	}
}

func TestBuildSystemPromptFallsBackToGeneral(t *testing.T) {
	out := BuildSystemPrompt(models.AnalysisType("alpaca_shearing"))
	assert.Contains(t, out, analysisInstructions[models.AnalysisTypeGeneral])
}

func TestBuildUserPromptSectionOrdering(t *testing.T) {
	reqs := requirements.Defaults()
	reqs.FocusAreas = []string{"laying rate", "feed conversion"}
	reqs.Context = "feed supplier changed in week 12"
	reqs.Period = &models.Period{From: "2024-01-01", To: "2024-03-31"}
	reqs.Benchmarks = map[string]any{"laying_rate": 0.92}

	out, err := BuildUserPrompt(map[string]any{"eggs": 1200}, models.AnalysisTypePoultryLaying, reqs)
	require.NoError(t, err)

	// Line-anchored markers; "Recommendations:" alone would also match the
	// "- Include Recommendations:" requirement line.
	markers := []string{
		"Poultry Laying Analysis Request",
		"\nData:",
		"\nAnalysis Requirements:",
		"- Analysis Depth: standard",
		"- Focus Areas: laying rate, feed conversion",
		"- Output Format: structured",
		"\nAdditional Context:",
		"\nAnalysis Period:",
		"\nIndustry Benchmarks:",
		"Please structure your analysis as follows:",
		"\nSummary:",
		"\nKey Findings:",
		"\nRecommendations:",
		"\nRisks:",
		"\nOpportunities:",
		"\nMetrics Dashboard:",
	}

	last := -1
	for _, marker := range markers {
		idx := strings.Index(out, marker)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", marker)
		assert.Greater(t, idx, last, "section %q out of order", marker)
		last = idx
	}
}

func TestBuildUserPromptOmitsEmptySections(t *testing.T) {
	out, err := BuildUserPrompt(map[string]any{"eggs": 1200}, models.AnalysisTypePoultryLaying, requirements.Defaults())
	require.NoError(t, err)

	assert.NotContains(t, out, "- Focus Areas:")
	assert.NotContains(t, out, "- Exclude Areas:")
	assert.NotContains(t, out, "Additional Context:")
	assert.NotContains(t, out, "Analysis Period:")
	assert.NotContains(t, out, "Industry Benchmarks:")
}

func TestBuildUserPromptRendersFlags(t *testing.T) {
	reqs := requirements.Defaults()
	reqs.IncludeRecommendations = false
	reqs.RiskAssessment = true
	reqs.IndustryStandards = false

	out, err := BuildUserPrompt(map[string]any{"x": 1}, models.AnalysisTypeGeneral, reqs)
	require.NoError(t, err)

	assert.Contains(t, out, "- Include Recommendations: No")
	assert.Contains(t, out, "- Risk Assessment: Yes")
	assert.Contains(t, out, "- Compare Against Industry Standards: No")
}

func TestBuildUserPromptPeriodPlaceholders(t *testing.T) {
	reqs := requirements.Defaults()
	reqs.Period = &models.Period{From: "2024-01-01"}

	out, err := BuildUserPrompt(map[string]any{"x": 1}, models.AnalysisTypeSwineFeeding, reqs)
	require.NoError(t, err)

	assert.Contains(t, out, "- From: 2024-01-01")
	assert.Contains(t, out, "- To: N/A")
}

func TestBuildUserPromptSerializesData(t *testing.T) {
	data := map[string]any{
		"flock":  "A-12",
		"eggs":   1200,
		"weekly": map[string]any{"w1": 280, "w2": 310},
	}

	out, err := BuildUserPrompt(data, models.AnalysisTypePoultryLaying, requirements.Defaults())
	require.NoError(t, err)

	assert.Contains(t, out, `"flock": "A-12"`)
	assert.Contains(t, out, `"eggs": 1200`)
	assert.Contains(t, out, `"w2": 310`)
}

func TestBuildUserPromptDeterministic(t *testing.T) {
	data := map[string]any{"b": 2, "a": 1, "c": map[string]any{"z": 26, "y": 25}}
	reqs := requirements.Normalize(map[string]any{"benchmarks": map[string]any{"m2": 2, "m1": 1}})

	first, err := BuildUserPrompt(data, models.AnalysisTypeSales, reqs)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := BuildUserPrompt(data, models.AnalysisTypeSales, reqs)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
