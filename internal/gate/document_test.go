package gate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentFullPayload(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"summary": {"overall_score": 92.5},
		"coverage": {
			"security_coverage": 1.0,
			"correctness_coverage": 1.0,
			"performance_coverage": 0.75,
			"ai_coverage": 0.96
		},
		"validation_results": [
			{"claim": "AI Inference Accuracy", "passed": true, "measured": "99.95%"},
			{"claim": "Memory Safety Guarantees", "passed": false}
		],
		"memory": {
			"peak_pressure": 87.5,
			"oom_events": 3,
			"avg_memory_pressure": 42.0,
			"latency_p99_ns": 2500000
		},
		"chaos": {
			"chaos_events_count": 180,
			"successful_recoveries": 9,
			"failed_recoveries": 1
		},
		"compare": {
			"autonomy_on": {"interventions": {"total": 12}, "oom_events": 2},
			"autonomy_off": {"oom_events": 8}
		},
		"learning": {
			"episodes": [{"reward": 10.0}, {"reward": 13.0}]
		}
	}`)

	doc, err := ParseDocument(raw)
	require.NoError(t, err)

	require.NotNil(t, doc.Summary)
	assert.InDelta(t, 92.5, doc.Summary.OverallScore, 1e-9)

	require.NotNil(t, doc.Coverage)
	assert.InDelta(t, 0.75, doc.Coverage.Performance, 1e-9)

	require.Len(t, doc.ValidationResults, 2)
	require.NotNil(t, doc.ValidationResults[0].Measured)
	assert.Equal(t, "99.95%", *doc.ValidationResults[0].Measured)
	assert.Nil(t, doc.ValidationResults[1].Measured)

	require.NotNil(t, doc.Memory)
	require.NotNil(t, doc.Memory.OOMEvents)
	assert.Equal(t, 3, *doc.Memory.OOMEvents)

	require.NotNil(t, doc.Chaos)
	assert.Equal(t, 9, doc.Chaos.SuccessfulRecoveries)
	assert.Nil(t, doc.Chaos.LatencyP95Ns)

	require.NotNil(t, doc.Compare)
	require.NotNil(t, doc.Compare.AutonomyOn)
	assert.Equal(t, 12, doc.Compare.AutonomyOn.Interventions.Total)

	require.NotNil(t, doc.Learning)
	assert.Len(t, doc.Learning.Episodes, 2)
}

func TestParseDocumentEmptyObject(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`{}`))
	require.NoError(t, err)

	assert.Nil(t, doc.Summary)
	assert.Nil(t, doc.Coverage)
	assert.Nil(t, doc.ValidationResults)
	assert.Nil(t, doc.Memory)
}

func TestParseDocumentPresentEmptyResults(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`{"validation_results": []}`))
	require.NoError(t, err)

	assert.NotNil(t, doc.ValidationResults)
	assert.Empty(t, doc.ValidationResults)
}

func TestParseDocumentMalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "invalid json", raw: `{nope`},
		{name: "top level array", raw: `[1, 2, 3]`},
		{name: "results not a list", raw: `{"validation_results": "everything passed"}`},
		{name: "summary not an object", raw: `{"summary": []}`},
		{name: "score not a number", raw: `{"summary": {"overall_score": "high"}}`},
		{name: "oom events not an integer", raw: `{"memory": {"oom_events": "four"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseDocument([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestParseDocumentIgnoresUnknownSections(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`{"summary": {"overall_score": 90}, "extra": {"anything": true}}`))
	require.NoError(t, err)
	require.NotNil(t, doc.Summary)
	assert.InDelta(t, 90.0, doc.Summary.OverallScore, 1e-9)
}

func TestLoadDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"summary": {"overall_score": 85}}`), 0o644))

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	require.NotNil(t, doc.Summary)
	assert.InDelta(t, 85.0, doc.Summary.OverallScore, 1e-9)
}

func TestLoadDocumentMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestMeasuredValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0%", ValidationResult{}.MeasuredValue())
	assert.Equal(t, "", ValidationResult{Measured: ptr("")}.MeasuredValue())
	assert.Equal(t, "99.9%", ValidationResult{Measured: ptr("99.9%")}.MeasuredValue())
}

func TestClaimName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Unknown test", ValidationResult{}.ClaimName())
	assert.Equal(t, "Scheduler Fairness", ValidationResult{Claim: "Scheduler Fairness"}.ClaimName())
}
