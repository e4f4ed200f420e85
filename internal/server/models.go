// internal/server/models.go
package server

import (
	"farm-analysis-api/internal/models"
)

// AnalyzeRequest is the body of POST /api/v1/analysis.
type AnalyzeRequest struct {
	AnalysisType string         `json:"analysisType"`
	Data         map[string]any `json:"data"`
	Requirements map[string]any `json:"requirements,omitempty"`
	Options      models.Options `json:"options,omitempty"`
}

// BatchAnalyzeRequest is the body of POST /api/v1/analysis/batch. Each
// dataset is analyzed independently under its key.
type BatchAnalyzeRequest struct {
	AnalysisType string                    `json:"analysisType"`
	Datasets     map[string]map[string]any `json:"datasets"`
	Requirements map[string]any            `json:"requirements,omitempty"`
	Options      models.Options            `json:"options,omitempty"`
}

// AnalyzeResponse wraps a successful single analysis.
type AnalyzeResponse struct {
	Success bool                   `json:"success"`
	Result  *models.AnalysisResult `json:"result"`
}

// BatchAnalyzeResponse wraps a completed batch run. Values are either
// analysis results or per-key error records.
type BatchAnalyzeResponse struct {
	Success bool           `json:"success"`
	Results map[string]any `json:"results"`
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
