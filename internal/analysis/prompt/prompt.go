// internal/analysis/prompt/prompt.go

// Package prompt renders the system and user prompts sent to the completion
// endpoint. Both builders are pure: equal inputs always produce equal output.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"farm-analysis-api/internal/models"
)

// outputStructure is the fixed closing block of every user prompt. Its
// headings are the literal markers the extract package slices responses with.
const outputStructure = `Please structure your analysis as follows:

Summary:
A concise overview of the overall situation in two to three sentences.

Key Findings:
The most significant observations from the data, ordered by impact, each backed by the figures that support it.

Recommendations:
Actionable recommendations grouped into three priority tiers:
- Critical (immediate action required)
- Important (address within 30 days)
- Beneficial (long-term improvement)

Risks:
Current and emerging risks visible in the data, each with likelihood and potential impact.

Opportunities:
Areas with unrealized potential for improved performance or profitability.

Metrics Dashboard:
The key performance indicators with their current values and, where benchmarks are available, their target ranges.`

// BuildSystemPrompt renders the instruction block for the given analysis type.
func BuildSystemPrompt(analysisType models.AnalysisType) string {
	return systemPreamble + "\n\n" + instructionsFor(analysisType)
}

// BuildUserPrompt renders the dataset, the normalized requirements and the
// fixed output structure into a single user prompt. Sections appear in a
// fixed order; Context, Period and Benchmarks are included only when set.
func BuildUserPrompt(data map[string]any, analysisType models.AnalysisType, reqs models.Requirements) (string, error) {
	dataJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize dataset: %w", err)
	}

	var parts []string

	parts = append(parts, fmt.Sprintf("%s Analysis Request", analysisType.DisplayName()))

	parts = append(parts, "\nData:")
	parts = append(parts, string(dataJSON))

	parts = append(parts, "\nAnalysis Requirements:")
	parts = append(parts, fmt.Sprintf("- Analysis Depth: %s", reqs.Depth))
	if len(reqs.FocusAreas) > 0 {
		parts = append(parts, fmt.Sprintf("- Focus Areas: %s", strings.Join(reqs.FocusAreas, ", ")))
	}
	if len(reqs.ExcludeAreas) > 0 {
		parts = append(parts, fmt.Sprintf("- Exclude Areas: %s", strings.Join(reqs.ExcludeAreas, ", ")))
	}
	parts = append(parts, fmt.Sprintf("- Priority Level: %s", reqs.PriorityLevel))
	parts = append(parts, fmt.Sprintf("- Include Recommendations: %s", yesNo(reqs.IncludeRecommendations)))
	parts = append(parts, fmt.Sprintf("- Risk Assessment: %s", yesNo(reqs.RiskAssessment)))
	parts = append(parts, fmt.Sprintf("- Compare Against Industry Standards: %s", yesNo(reqs.IndustryStandards)))
	parts = append(parts, fmt.Sprintf("- Output Format: %s", reqs.Format))

	if reqs.Context != "" {
		parts = append(parts, "\nAdditional Context:")
		parts = append(parts, reqs.Context)
	}

	if reqs.Period != nil {
		parts = append(parts, "\nAnalysis Period:")
		parts = append(parts, fmt.Sprintf("- From: %s", orPlaceholder(reqs.Period.From)))
		parts = append(parts, fmt.Sprintf("- To: %s", orPlaceholder(reqs.Period.To)))
	}

	if len(reqs.Benchmarks) > 0 {
		benchJSON, err := json.MarshalIndent(reqs.Benchmarks, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serialize benchmarks: %w", err)
		}
		parts = append(parts, "\nIndustry Benchmarks:")
		parts = append(parts, string(benchJSON))
	}

	parts = append(parts, "\n"+outputStructure)

	return strings.Join(parts, "\n"), nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func orPlaceholder(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
