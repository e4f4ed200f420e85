// internal/common/validation/schema.go
package validation

import (
	"strings"

	"farm-analysis-api/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// optionsSchema constrains per-request completion overrides. All fields are
// optional; bounds mirror what the upstream provider accepts.
var optionsSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"model":            map[string]interface{}{"type": "string", "minLength": 1},
		"maxTokens":        map[string]interface{}{"type": "integer", "minimum": 1},
		"temperature":      map[string]interface{}{"type": "number", "minimum": 0, "maximum": 2},
		"topP":             map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
		"frequencyPenalty": map[string]interface{}{"type": "number", "minimum": -2, "maximum": 2},
		"presencePenalty":  map[string]interface{}{"type": "number", "minimum": -2, "maximum": 2},
		"cache":            map[string]interface{}{"type": "boolean"},
	},
}

// analysisType is shape-checked only; unknown values are rejected downstream
// so that they surface as analysis errors rather than malformed requests.
var analyzeRequestSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"analysisType", "data"},
	"properties": map[string]interface{}{
		"analysisType": map[string]interface{}{"type": "string", "minLength": 1},
		"data":         map[string]interface{}{"type": "object"},
		"requirements": map[string]interface{}{"type": "object"},
		"options":      optionsSchema,
	},
}

var batchRequestSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"analysisType", "datasets"},
	"properties": map[string]interface{}{
		"analysisType": map[string]interface{}{"type": "string", "minLength": 1},
		"datasets": map[string]interface{}{
			"type":                 "object",
			"minProperties":        1,
			"additionalProperties": map[string]interface{}{"type": "object"},
		},
		"requirements": map[string]interface{}{"type": "object"},
		"options":      optionsSchema,
	},
}

// ValidateAnalyzeRequest checks the shape of a single-analysis request body.
func ValidateAnalyzeRequest(payload map[string]interface{}) error {
	return validate(analyzeRequestSchema, payload)
}

// ValidateBatchRequest checks the shape of a batch analysis request body.
func ValidateBatchRequest(payload map[string]interface{}) error {
	return validate(batchRequestSchema, payload)
}

func validate(schemaMap, payload map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schemaMap)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewInvalidRequestError(err.Error())
	}

	if !result.Valid() {
		details := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			details[i] = desc.String()
		}
		return errors.NewInvalidRequestError(strings.Join(details, "; "))
	}

	return nil
}
