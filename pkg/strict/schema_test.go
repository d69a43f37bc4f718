package strict_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strictproc/strict-go/pkg/strict"
)

func TestProcessingRequest_RoundTripMinimal(t *testing.T) {
	req := strict.ProcessingRequest{
		InputData:   "hello",
		InputTokens: 12,
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	// Absent optional fields are omitted, not encoded as null.
	assert.NotContains(t, string(data), "processor_type")
	assert.NotContains(t, string(data), "timeout_seconds")

	var decoded strict.ProcessingRequest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, req, decoded)
	assert.Nil(t, decoded.ProcessorType)
	assert.Nil(t, decoded.TimeoutSeconds)
}

func TestProcessingRequest_RoundTripFull(t *testing.T) {
	req := strict.ProcessingRequest{
		InputData:      "hello",
		InputTokens:    12,
		ProcessorType:  strict.Ptr(strict.ProcessorLocal),
		TimeoutSeconds: strict.Ptr(2.5),
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"input_data": "hello",
		"input_tokens": 12,
		"processor_type": "local",
		"timeout_seconds": 2.5
	}`, string(data))

	var decoded strict.ProcessingRequest
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, req, decoded)
}

func TestOutputSchema_RetriesAttemptedDefault(t *testing.T) {
	body := `{
		"result": {"answer": 42},
		"validation": {"status": "success", "is_valid": true, "input_hash": "abcd", "errors": []},
		"processor_used": "cloud",
		"processing_time_ms": 10.5
	}`

	var out strict.OutputSchema
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, 0, out.RetriesAttempted)
	assert.Equal(t, strict.ProcessorCloud, out.ProcessorUsed)
}

func TestOutputSchema_RetriesAttemptedPreserved(t *testing.T) {
	body := `{
		"result": null,
		"validation": {"status": "success", "is_valid": true, "input_hash": "abcd", "errors": []},
		"processor_used": "local",
		"processing_time_ms": 1,
		"retries_attempted": 3
	}`

	var out strict.OutputSchema
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, 3, out.RetriesAttempted)
	assert.Nil(t, out.Result)
}

func TestValidationResult_Warnings(t *testing.T) {
	// Older service versions omit warnings entirely.
	var bare strict.ValidationResult
	require.NoError(t, json.Unmarshal(
		[]byte(`{"status": "success", "is_valid": true, "input_hash": "ff", "errors": []}`), &bare))
	assert.Nil(t, bare.Warnings)

	var withWarnings strict.ValidationResult
	require.NoError(t, json.Unmarshal(
		[]byte(`{"status": "partial", "is_valid": true, "input_hash": "ff", "errors": [], "warnings": ["slow"]}`),
		&withWarnings))
	assert.Equal(t, []string{"slow"}, withWarnings.Warnings)
}

func TestValidationResult_ErrorsOrderPreserved(t *testing.T) {
	var res strict.ValidationResult
	require.NoError(t, json.Unmarshal(
		[]byte(`{"status": "failure", "is_valid": false, "input_hash": "", "errors": ["b", "a", "c"]}`), &res))
	assert.Equal(t, []string{"b", "a", "c"}, res.Errors)
}

func TestOutputSchema_OpenResultShapes(t *testing.T) {
	tests := []struct {
		name   string
		result string
		want   any
	}{
		{"null", `null`, nil},
		{"bool", `true`, true},
		{"number", `3.5`, 3.5},
		{"string", `"ok"`, "ok"},
		{"list", `[1, 2]`, []any{1.0, 2.0}},
		{"object", `{"k": "v"}`, map[string]any{"k": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{
				"result": ` + tt.result + `,
				"validation": {"status": "success", "is_valid": true, "input_hash": "x", "errors": []},
				"processor_used": "hybrid",
				"processing_time_ms": 0
			}`
			var out strict.OutputSchema
			require.NoError(t, json.Unmarshal([]byte(body), &out))
			assert.Equal(t, tt.want, out.Result)
		})
	}
}
