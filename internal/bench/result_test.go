package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(scenario string, node int, success bool) TestResult {
	return TestResult{TestName: scenario, NodeID: node, Success: success}
}

func TestPerformanceSummary(t *testing.T) {
	t.Parallel()

	results := []TestResult{
		result(ScenarioAIInference, 1, true),
		result(ScenarioAIInference, 2, false),
		result(ScenarioThroughput, 1, true),
		result(ScenarioThroughput, 2, true),
	}

	summary := performanceSummary(results)

	assert.Equal(t, 4, summary.TotalTests)
	assert.Equal(t, 3, summary.PassedTests)
	assert.Equal(t, 1, summary.FailedTests)

	inference := summary.TestBreakdown[ScenarioAIInference]
	assert.Equal(t, 2, inference.Total)
	assert.Equal(t, 1, inference.Passed)
	assert.Equal(t, 1, inference.Failed)
	assert.InDelta(t, 0.5, inference.SuccessRate, 1e-9)

	throughput := summary.TestBreakdown[ScenarioThroughput]
	assert.InDelta(t, 1.0, throughput.SuccessRate, 1e-9)

	breakdownTotal := 0
	for _, breakdown := range summary.TestBreakdown {
		breakdownTotal += breakdown.Total
	}
	assert.Equal(t, summary.TotalTests, breakdownTotal)
}

func TestPerformanceSummary_Empty(t *testing.T) {
	t.Parallel()

	summary := performanceSummary(nil)
	assert.Zero(t, summary.TotalTests)
	assert.Empty(t, summary.TestBreakdown)
}

func TestDistributedSummary(t *testing.T) {
	t.Parallel()

	t.Run("all steps passing", func(t *testing.T) {
		t.Parallel()

		results := []TestResult{
			result(ScenarioByzantineConsensus, 0, true),
			result(ScenarioLeaderElection, 0, true),
			result(ScenarioPartitionRecovery, 0, true),
		}

		summary := distributedSummary(results, 10)
		assert.Equal(t, 10, summary.TotalNodes)
		assert.Equal(t, 3, summary.ByzantineTolerance)
		assert.Equal(t, 3, summary.TotalTests)
		require.NotNil(t, summary.ConsensusCapable)
		assert.True(t, *summary.ConsensusCapable)
	})

	t.Run("one failing step", func(t *testing.T) {
		t.Parallel()

		results := []TestResult{
			result(ScenarioByzantineConsensus, 0, true),
			result(ScenarioLeaderElection, 0, false),
		}

		summary := distributedSummary(results, 4)
		assert.Equal(t, 1, summary.ByzantineTolerance)
		require.NotNil(t, summary.ConsensusCapable)
		assert.False(t, *summary.ConsensusCapable)
	})
}

func TestTestSuite_Duration(t *testing.T) {
	t.Parallel()

	suite := &TestSuite{StartTime: 100.5, EndTime: 103.25}
	assert.InDelta(t, 2.75, suite.Duration(), 1e-9)
}
