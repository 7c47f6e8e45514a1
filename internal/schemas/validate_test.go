package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fourPhases = `{
  "phase_1": {"title": "Foundation", "duration": "3 months", "skills": ["Go"], "resources": [], "actionable_steps": ["Build"]},
  "phase_2": {"title": "Core"},
  "phase_3": {"title": "Advanced", "skills": null},
  "phase_4": {}
}`

func TestCareerPathSchema_IsValidJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(CareerPathSchema()), &doc))
	assert.ElementsMatch(t, []any{"phase_1", "phase_2", "phase_3", "phase_4"}, doc["required"])
}

func TestValidateCareerPath(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantValid bool
		wantField string
	}{
		{name: "all four phases", doc: fourPhases, wantValid: true},
		{
			name:      "missing phase_4",
			doc:       `{"phase_1": {}, "phase_2": {}, "phase_3": {}}`,
			wantField: "(root)",
		},
		{
			name:      "null phase",
			doc:       `{"phase_1": {}, "phase_2": null, "phase_3": {}, "phase_4": {}}`,
			wantField: "phase_2",
		},
		{
			name:      "skills not a list",
			doc:       `{"phase_1": {"skills": "Go"}, "phase_2": {}, "phase_3": {}, "phase_4": {}}`,
			wantField: "phase_1.skills",
		},
		{
			name:      "non-string list item",
			doc:       `{"phase_1": {"resources": [1]}, "phase_2": {}, "phase_3": {}, "phase_4": {}}`,
			wantField: "phase_1.resources.0",
		},
		{
			name:      "array document",
			doc:       `[]`,
			wantField: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCareerPath(tt.doc)
			if tt.wantValid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields(), tt.wantField)
		})
	}
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))

	err := ValidateJSONString(schema, `{"name": 1}`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Errors[0].Field)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var lerr *SchemaLoadError
	require.ErrorAs(t, err, &lerr)
}

func TestValidationError_Error(t *testing.T) {
	verr := &ValidationError{Errors: []FieldError{{Field: "phase_1", Message: "is required"}}}
	assert.Contains(t, verr.Error(), "1. phase_1: is required")
}
