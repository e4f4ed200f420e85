// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"farm-analysis-api/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAnalyzeRequest(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		wantErr bool
	}{
		{
			name: "minimal valid request",
			payload: map[string]interface{}{
				"analysisType": "poultry_laying",
				"data":         map[string]interface{}{"eggs": 1200},
			},
			wantErr: false,
		},
		{
			name: "full request with requirements and options",
			payload: map[string]interface{}{
				"analysisType": "swine_feeding",
				"data":         map[string]interface{}{"feed_kg": 540.5},
				"requirements": map[string]interface{}{"depth": "comprehensive", "focus_areas": []interface{}{"fcr"}},
				"options":      map[string]interface{}{"model": "gpt-4", "maxTokens": 1500, "temperature": 0.2},
			},
			wantErr: false,
		},
		{
			name: "unknown analysis type passes shape check",
			payload: map[string]interface{}{
				"analysisType": "llama_grooming",
				"data":         map[string]interface{}{"x": 1},
			},
			wantErr: false,
		},
		{
			name:    "missing analysis type",
			payload: map[string]interface{}{"data": map[string]interface{}{"x": 1}},
			wantErr: true,
		},
		{
			name:    "missing data",
			payload: map[string]interface{}{"analysisType": "general"},
			wantErr: true,
		},
		{
			name: "empty analysis type",
			payload: map[string]interface{}{
				"analysisType": "",
				"data":         map[string]interface{}{"x": 1},
			},
			wantErr: true,
		},
		{
			name: "data must be an object",
			payload: map[string]interface{}{
				"analysisType": "general",
				"data":         []interface{}{1, 2, 3},
			},
			wantErr: true,
		},
		{
			name: "temperature out of range",
			payload: map[string]interface{}{
				"analysisType": "general",
				"data":         map[string]interface{}{"x": 1},
				"options":      map[string]interface{}{"temperature": 3.5},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnalyzeRequest(tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				var valErr *errors.ValidationError
				require.ErrorAs(t, err, &valErr)
				assert.Equal(t, errors.ErrCodeInvalidRequest, valErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBatchRequest(t *testing.T) {
	valid := map[string]interface{}{
		"analysisType": "sales_analysis",
		"datasets": map[string]interface{}{
			"north": map[string]interface{}{"revenue": 1000},
			"south": map[string]interface{}{"revenue": 2000},
		},
	}
	assert.NoError(t, ValidateBatchRequest(valid))

	empty := map[string]interface{}{
		"analysisType": "sales_analysis",
		"datasets":     map[string]interface{}{},
	}
	assert.Error(t, ValidateBatchRequest(empty))

	wrongShape := map[string]interface{}{
		"analysisType": "sales_analysis",
		"datasets": map[string]interface{}{
			"north": "not an object",
		},
	}
	assert.Error(t, ValidateBatchRequest(wrongShape))

	missing := map[string]interface{}{"analysisType": "sales_analysis"}
	assert.Error(t, ValidateBatchRequest(missing))
}
