package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadValid(t *testing.T) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "valid_submission.json"))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestOnboardingSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(OnboardingSchema()), &v))
	assert.Equal(t, "object", v["type"])
}

func TestValidateFile_Valid(t *testing.T) {
	assert.NoError(t, ValidateFile(filepath.Join("testdata", "valid_submission.json")))
}

func TestValidateFile_NotFound(t *testing.T) {
	err := ValidateFile(filepath.Join("testdata", "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestValidateSubmission(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
		field  string
	}{
		{
			name:   "missing first name",
			mutate: func(m map[string]any) { delete(m, "firstName") },
			field:  "(root)",
		},
		{
			name:   "empty last name",
			mutate: func(m map[string]any) { m["lastName"] = "" },
			field:  "lastName",
		},
		{
			name:   "invalid email",
			mutate: func(m map[string]any) { m["email"] = "not-an-email" },
			field:  "email",
		},
		{
			name:   "malformed ssn",
			mutate: func(m map[string]any) { m["socialSecurityNumber"] = "12-345" },
			field:  "socialSecurityNumber",
		},
		{
			name: "short emergency phone",
			mutate: func(m map[string]any) {
				m["emergencyContact"].(map[string]any)["phone"] = "555"
			},
			field: "emergencyContact.phone",
		},
		{
			name:   "vehicle insured as string",
			mutate: func(m map[string]any) { m["vehicle"].(map[string]any)["insured"] = "yes" },
			field:  "vehicle.insured",
		},
		{
			name: "signature without id",
			mutate: func(m map[string]any) {
				m["signatures"] = []any{map[string]any{"signatureType": "ethics", "signatureTimestamp": "2024-03-01"}}
			},
			field: "signatures.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadValid(t)
			tt.mutate(m)

			err := ValidateSubmission(marshal(t, m))
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Errors)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
		})
	}
}

func TestValidateSubmission_OptionalSectionsMayBeOmitted(t *testing.T) {
	m := loadValid(t)
	for _, k := range []string{"vehicle", "medications", "legalStatus", "signatures", "documentTypes"} {
		delete(m, k)
	}
	assert.NoError(t, ValidateSubmission(marshal(t, m)))
}

func TestValidateSubmission_NotJSON(t *testing.T) {
	err := ValidateSubmission([]byte("{ invalid json }"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "(root)", verr.Errors[0].Field)
	assert.Contains(t, verr.Errors[0].Message, "not valid JSON")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{"name":1}`)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Errors[0].Field)
	assert.Contains(t, err.Error(), "validation failed: name:")
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
}
