package output

import (
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisworks/benchgate/internal/gate"
)

func newVerdictFormatter() *VerdictFormatter {
	return NewVerdictFormatter(logrus.New())
}

func TestFormatReleaseSuccess(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	verdict := &gate.Verdict{
		Success: true,
		Passes:  []string{"All required data sections present", "Found 4 validation results"},
		Warnings: []gate.Finding{
			{Message: "Performance coverage (40.0%) below recommended threshold (50%)", Severity: gate.SeverityWarning},
		},
	}

	out := newVerdictFormatter().FormatRelease(verdict, "results.json")

	want := `Starting SIS Kernel test results validation...
Validating results from: results.json
============================================================
[PASS] All required data sections present
[PASS] Found 4 validation results
============================================================
[PASS] All validation checks PASSED
[WARN] 1 warnings:
   WARNING: Performance coverage (40.0%) below recommended threshold (50%)
`

	assert.Equal(t, want, out)
}

func TestFormatReleaseFailure(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	verdict := &gate.Verdict{
		Success: false,
		Errors: []gate.Finding{
			{Message: "Overall score (72.5%) below minimum threshold (80%)", Severity: gate.SeverityError},
			{Message: "No validation results found in test output", Severity: gate.SeverityError},
		},
	}

	out := newVerdictFormatter().FormatRelease(verdict, "results.json")

	assert.Contains(t, out, "[FAIL] Validation FAILED with 2 errors")
	assert.Contains(t, out, "   ERROR: Overall score (72.5%) below minimum threshold (80%)")
	assert.Contains(t, out, "   ERROR: No validation results found in test output")
	assert.NotContains(t, out, "[WARN]")
}

func TestFormatStressFailure(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	verdict := &gate.Verdict{
		Success: false,
		Errors: []gate.Finding{
			{Message: "Too many OOM events: 12 > 10", Severity: gate.SeverityError},
		},
		Warnings: []gate.Finding{
			{Message: "Average memory pressure not tracked", Severity: gate.SeverityWarning},
		},
	}

	out := newVerdictFormatter().FormatStress(verdict)

	want := `[FAIL] Stress test validation failed:

Errors:
  ✗ Too many OOM events: 12 > 10

Warnings:
  ⚠ Average memory pressure not tracked
`

	assert.Equal(t, want, out)
}

func TestFormatStressStrictNote(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	// A strict verdict carries promoted warnings inside the error list.
	verdict := &gate.Verdict{
		Success: false,
		Errors: []gate.Finding{
			{Message: "Too many OOM events: 12 > 10", Severity: gate.SeverityError},
			{Message: "Average memory pressure not tracked", Severity: gate.SeverityWarning},
		},
	}

	out := newVerdictFormatter().FormatStress(verdict)

	assert.Contains(t, out, "Errors:\n  ✗ Too many OOM events: 12 > 10")
	assert.Contains(t, out, "Warnings:\n  ⚠ Average memory pressure not tracked")
	assert.Contains(t, out, "\n(Warnings treated as errors)\n")
}

func TestFormatStressWarningsOnly(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	verdict := &gate.Verdict{
		Success: true,
		Warnings: []gate.Finding{
			{Message: "Latency percentiles not tracked", Severity: gate.SeverityWarning},
		},
	}

	out := newVerdictFormatter().FormatStress(verdict)

	want := `[PASS] Stress tests passed with warnings:

  ⚠ Latency percentiles not tracked

`

	assert.Equal(t, want, out)
}

func TestFormatStressClean(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	out := newVerdictFormatter().FormatStress(&gate.Verdict{Success: true})

	assert.Equal(t, "[PASS] ✓ All stress test validations passed\n", out)
}

func TestFormatStressPreamble(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	out := newVerdictFormatter().FormatStressPreamble("stress.json", gate.DefaultPolicy())

	assert.Contains(t, out, "[INFO] Validating stress test results from: stress.json")
	assert.Contains(t, out, "  - Max OOM events: 10")
	assert.Contains(t, out, "  - Min autonomy interventions: 5")
	assert.Contains(t, out, "  - Max p99 latency: 5ms")
	assert.Contains(t, out, "  - Min learning improvement: 15%")
}

func TestFormatValidatedSections(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	doc := &gate.Document{
		Memory:   &gate.MemorySection{},
		Learning: &gate.LearningSection{},
	}

	out := newVerdictFormatter().FormatValidatedSections(doc)

	assert.Contains(t, out, "Validated:")
	assert.Contains(t, out, "✓ Memory test")
	assert.Contains(t, out, "✓ Learning test")
	assert.NotContains(t, out, "Chaos test")
	assert.NotContains(t, out, "Autonomy comparison")
}

func TestNewCIReport(t *testing.T) {
	verdict := &gate.Verdict{
		Success: false,
		Errors: []gate.Finding{
			{Message: "Too many OOM events: 12 > 10", Severity: gate.SeverityError},
		},
		Warnings: []gate.Finding{
			{Message: "Recovery latencies not tracked", Severity: gate.SeverityWarning},
		},
	}

	report := NewCIReport(verdict, "stress.json")

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "stress.json", decoded["file"])
	assert.Len(t, decoded["errors"], 1)
	assert.Len(t, decoded["warnings"], 1)
}
