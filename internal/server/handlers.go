// internal/server/handlers.go

package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"farm-analysis-api/internal/common/errors"
	"farm-analysis-api/internal/common/validation"
	"farm-analysis-api/internal/models"

	"github.com/gin-gonic/gin"
)

// maxRequestBytes bounds inbound bodies; the per-dataset limit is enforced
// separately by the analysis service.
const maxRequestBytes = 10 * 1024 * 1024

// readPayload decodes the request body into a generic map so it can be
// schema-checked before binding to a typed request.
func (s *Server) readPayload(c *gin.Context) (map[string]interface{}, []byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "request body could not be read")
		return nil, nil, false
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		s.respondError(c, http.StatusBadRequest, "request body is not valid JSON")
		return nil, nil, false
	}
	return payload, body, true
}

func (s *Server) handleAnalyze(c *gin.Context) {
	payload, body, ok := s.readPayload(c)
	if !ok {
		return
	}

	if err := validation.ValidateAnalyzeRequest(payload); err != nil {
		s.respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	var req AnalyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.respondError(c, http.StatusBadRequest, "request body does not match the expected shape")
		return
	}

	result, err := s.service.Analyze(c.Request.Context(), req.Data, models.AnalysisType(req.AnalysisType), req.Requirements, req.Options)
	if err != nil {
		status := errors.HTTPStatus(err)
		s.logger.WithError(err).Warn("analysis request failed", map[string]interface{}{
			"requestId":    c.GetString("requestID"),
			"analysisType": req.AnalysisType,
			"status":       status,
		})
		s.respondError(c, status, errors.UserMessage(err))
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{Success: true, Result: result})
}

func (s *Server) handleBatchAnalyze(c *gin.Context) {
	payload, body, ok := s.readPayload(c)
	if !ok {
		return
	}

	if err := validation.ValidateBatchRequest(payload); err != nil {
		s.respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	var req BatchAnalyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.respondError(c, http.StatusBadRequest, "request body does not match the expected shape")
		return
	}

	// Per-dataset failures are reported inside the result map, so the batch
	// endpoint itself always answers 200.
	results := s.service.BatchAnalyze(c.Request.Context(), req.Datasets, models.AnalysisType(req.AnalysisType), req.Requirements, req.Options)

	c.JSON(http.StatusOK, BatchAnalyzeResponse{Success: true, Results: results})
}

func (s *Server) handleListTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"version": s.catalog.Version,
		"types":   s.catalog.Entries,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
	})
}

func (s *Server) handleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Success: false, Error: message})
}

// validationMessage keeps schema details visible to the caller; other errors
// fall back to their user-facing message.
func validationMessage(err error) string {
	var ve *errors.ValidationError
	if stderrors.As(err, &ve) && ve.Details != "" {
		return ve.Message + ": " + ve.Details
	}
	return errors.UserMessage(err)
}
