package gate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()

	assert.InDelta(t, 80.0, policy.MinOverallScore, 1e-9)
	assert.InDelta(t, 100.0, policy.MinSecurityCoverage, 1e-9)
	assert.InDelta(t, 99.9, policy.MinAIAccuracy, 1e-9)
	assert.Equal(t, 0, policy.MaxMemorySafetyViolations)
	assert.Equal(t, 2, policy.MaxAcceptableFailures)
	assert.Equal(t, 10, policy.MaxOOMEvents)
	assert.InDelta(t, 5.0, policy.MaxP99LatencyMs, 1e-9)
	assert.Equal(t, 5, policy.MinAutonomyInterventions)
	assert.InDelta(t, 15.0, policy.MinLearningImprovementPct, 1e-9)
}

func TestLoadPolicyMergesOverDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_oom_events: 25\nmin_overall_score: 90\n"), 0o644))

	policy, err := LoadPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 25, policy.MaxOOMEvents)
	assert.InDelta(t, 90.0, policy.MinOverallScore, 1e-9)

	// Keys absent from the file keep their defaults.
	assert.InDelta(t, 99.9, policy.MinAIAccuracy, 1e-9)
	assert.Equal(t, 2, policy.MaxAcceptableFailures)
}

func TestLoadPolicyMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadPolicyInvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_oom_events: [not a number\n"), 0o644))

	_, err := LoadPolicy(path)
	assert.Error(t, err)
}
