// Package errors provides the standardized error taxonomy for the analysis
// pipeline: local validation failures, completion-endpoint failures, and the
// uniform wrapper surfaced to callers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEmptyDataset        ErrorCode = "EMPTY_DATASET"
	ErrCodeUnknownAnalysisType ErrorCode = "UNKNOWN_ANALYSIS_TYPE"
	ErrCodeDatasetTooLarge     ErrorCode = "DATASET_TOO_LARGE"
	ErrCodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
)

// MaxDatasetBytes is the ceiling on the serialized size of a dataset.
const MaxDatasetBytes = 500_000

// ==========================
// 1. Validation Errors
// ==========================

// ValidationError reports a locally detected problem with an analysis
// request. It is raised before any outbound call and never retried.
type ValidationError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ValidationError[%s]: %s", e.Code, e.Message)
}

// NewEmptyDatasetError reports a request carrying no data to analyze.
func NewEmptyDatasetError() *ValidationError {
	return &ValidationError{
		Code:      ErrCodeEmptyDataset,
		Message:   "data for analysis is required",
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownAnalysisTypeError reports an analysis type outside the supported set.
func NewUnknownAnalysisTypeError(got string) *ValidationError {
	return &ValidationError{
		Code:      ErrCodeUnknownAnalysisType,
		Message:   "unsupported analysis type",
		Details:   fmt.Sprintf("analysisType: %s", got),
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetTooLargeError reports a dataset whose serialized form exceeds the limit.
func NewDatasetTooLargeError(sizeBytes int) *ValidationError {
	return &ValidationError{
		Code:      ErrCodeDatasetTooLarge,
		Message:   "dataset exceeds maximum size for analysis",
		Details:   fmt.Sprintf("serialized: %d bytes, limit: %d bytes", sizeBytes, MaxDatasetBytes),
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError reports a structurally invalid request payload.
func NewInvalidRequestError(details string) *ValidationError {
	return &ValidationError{
		Code:      ErrCodeInvalidRequest,
		Message:   "invalid analysis request",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. Upstream Errors
// ==========================

// UpstreamError reports a failed call to the completion endpoint, either a
// non-2xx response or a transport failure. StatusCode defaults to 500 when
// no response was received.
type UpstreamError struct {
	StatusCode int       `json:"statusCode"`
	Body       string    `json:"body,omitempty"`
	Err        error     `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("UpstreamError[%d]: %s", e.StatusCode, e.message())
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) message() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return fmt.Sprintf("completion endpoint returned status %d: %s", e.StatusCode, truncate(body, 512))
	}
	if e.Err != nil {
		return fmt.Sprintf("completion request failed: %v", e.Err)
	}
	return fmt.Sprintf("completion endpoint returned status %d", e.StatusCode)
}

// Retryable reports whether the failure is worth another attempt. Rate
// limiting, server-side statuses and transport errors qualify; other client
// errors do not.
func (e *UpstreamError) Retryable() bool {
	if e.Err != nil && e.Body == "" {
		// No response was received at all.
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewUpstreamStatusError wraps a non-2xx completion response.
func NewUpstreamStatusError(statusCode int, body string) *UpstreamError {
	return &UpstreamError{
		StatusCode: statusCode,
		Body:       body,
		Timestamp:  time.Now().UTC(),
	}
}

// NewUpstreamTransportError wraps a failure to reach the completion endpoint.
func NewUpstreamTransportError(err error) *UpstreamError {
	return &UpstreamError{
		StatusCode: http.StatusInternalServerError,
		Err:        err,
		Timestamp:  time.Now().UTC(),
	}
}

// ==========================
// 3. Analysis Errors
// ==========================

// AnalysisError is the uniform failure surfaced to callers of the analysis
// service. StatusCode carries the upstream HTTP status when one is known and
// defaults to 500 otherwise.
type AnalysisError struct {
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Err        error     `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("AnalysisError[%d]: %s", e.StatusCode, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// WrapAnalysis normalizes any pipeline failure into an AnalysisError.
// Validation failures keep their message with the default status; upstream
// failures keep the provider's status code.
func WrapAnalysis(err error) *AnalysisError {
	if err == nil {
		return nil
	}

	var ae *AnalysisError
	if stderrors.As(err, &ae) {
		return ae
	}

	wrapped := &AnalysisError{
		StatusCode: http.StatusInternalServerError,
		Message:    err.Error(),
		Err:        err,
		Timestamp:  time.Now().UTC(),
	}

	var ve *ValidationError
	if stderrors.As(err, &ve) {
		wrapped.Message = ve.Message
		if ve.Details != "" {
			wrapped.Message = fmt.Sprintf("%s (%s)", ve.Message, ve.Details)
		}
		return wrapped
	}

	var ue *UpstreamError
	if stderrors.As(err, &ue) {
		if ue.StatusCode != 0 {
			wrapped.StatusCode = ue.StatusCode
		}
		wrapped.Message = ue.message()
		return wrapped
	}

	return wrapped
}

// HTTPStatus extracts the status an error should render with at the HTTP
// boundary. Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	var ae *AnalysisError
	if stderrors.As(err, &ae) && ae.StatusCode != 0 {
		return ae.StatusCode
	}
	var ue *UpstreamError
	if stderrors.As(err, &ue) && ue.StatusCode != 0 {
		return ue.StatusCode
	}
	return http.StatusInternalServerError
}

// UserMessage extracts the human-readable message an error should render
// with, without the bracketed type prefix.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *AnalysisError
	if stderrors.As(err, &ae) {
		return ae.Message
	}
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve.Message
	}
	var ue *UpstreamError
	if stderrors.As(err, &ue) {
		return ue.message()
	}
	return err.Error()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
