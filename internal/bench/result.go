package bench

import "time"

// Scenario names as they appear in results, breakdowns and artifacts.
const (
	ScenarioAIInference        = "ai_inference"
	ScenarioContextSwitch      = "context_switch"
	ScenarioMemoryAllocation   = "memory_allocation"
	ScenarioThroughput         = "throughput"
	ScenarioByzantineConsensus = "byzantine_consensus"
	ScenarioLeaderElection     = "leader_election"
	ScenarioPartitionRecovery  = "partition_recovery"
)

// Suite names.
const (
	SuitePerformance = "performance_benchmark"
	SuiteDistributed = "distributed_consensus"
)

// TestResult is the outcome of a single scenario task. NodeID 0 marks a
// cluster-wide result. A result is owned by the task that produced it and
// immutable once returned.
type TestResult struct {
	TestName     string             `json:"test_name"`
	NodeID       int                `json:"node_id"`
	StartTime    float64            `json:"start_time"`
	EndTime      float64            `json:"end_time"`
	Success      bool               `json:"success"`
	Metrics      map[string]float64 `json:"metrics"`
	Logs         []string           `json:"logs"`
	ErrorMessage string             `json:"error_message,omitempty"`
}

// ScenarioBreakdown aggregates the results of one scenario within a suite.
type ScenarioBreakdown struct {
	Total       int     `json:"total"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// Summary aggregates a suite's results. The cluster fields are only
// populated for distributed suites.
type Summary struct {
	TotalNodes         int                          `json:"total_nodes,omitempty"`
	ByzantineTolerance int                          `json:"byzantine_tolerance,omitempty"`
	TotalTests         int                          `json:"total_tests"`
	PassedTests        int                          `json:"passed_tests"`
	FailedTests        int                          `json:"failed_tests"`
	TestBreakdown      map[string]ScenarioBreakdown `json:"test_breakdown,omitempty"`
	ConsensusCapable   *bool                        `json:"consensus_capable,omitempty"`
}

// TestSuite holds one orchestrator run: the ordered result list plus its
// derived summary, bracketed by wall-clock timestamps in unix seconds.
// Append-only during construction, frozen once returned.
type TestSuite struct {
	SuiteName string       `json:"suite_name"`
	StartTime float64      `json:"start_time"`
	EndTime   float64      `json:"end_time"`
	NodeCount int          `json:"node_count"`
	Results   []TestResult `json:"results"`
	Summary   Summary      `json:"summary"`
}

// Duration returns the suite wall-clock duration in seconds.
func (s *TestSuite) Duration() float64 {
	return s.EndTime - s.StartTime
}

// performanceSummary reduces a performance result list to counts plus a
// per-scenario breakdown. Breakdown totals always sum to the suite total.
func performanceSummary(results []TestResult) Summary {
	summary := Summary{
		TotalTests:    len(results),
		TestBreakdown: make(map[string]ScenarioBreakdown),
	}

	byScenario := make(map[string][]TestResult)
	for _, result := range results {
		byScenario[result.TestName] = append(byScenario[result.TestName], result)
		if result.Success {
			summary.PassedTests++
		} else {
			summary.FailedTests++
		}
	}

	for name, scenarioResults := range byScenario {
		passed := 0
		for _, result := range scenarioResults {
			if result.Success {
				passed++
			}
		}

		total := len(scenarioResults)
		rate := 0.0
		if total > 0 {
			rate = float64(passed) / float64(total)
		}

		summary.TestBreakdown[name] = ScenarioBreakdown{
			Total:       total,
			Passed:      passed,
			Failed:      total - passed,
			SuccessRate: rate,
		}
	}

	return summary
}

// distributedSummary reduces a distributed result list. ConsensusCapable
// is the conjunction of every step's success.
func distributedSummary(results []TestResult, nodes int) Summary {
	summary := Summary{
		TotalNodes:         nodes,
		ByzantineTolerance: nodes / 3,
		TotalTests:         len(results),
	}

	capable := true
	for _, result := range results {
		if result.Success {
			summary.PassedTests++
		} else {
			summary.FailedTests++
			capable = false
		}
	}
	summary.ConsensusCapable = &capable

	return summary
}

// unixSeconds converts t to fractional unix seconds, the timestamp unit
// used throughout result artifacts.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func nowSeconds() float64 {
	return unixSeconds(time.Now())
}
