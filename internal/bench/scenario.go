package bench

import (
	"context"
	"fmt"

	"github.com/sisworks/benchgate/internal/stats"
)

// Pass/fail targets. Each target belongs to its scenario group, not to
// the statistics layer.
const (
	aiInferenceTargetP99Us      = 40.0
	contextSwitchTargetP95Ns    = 500.0
	memoryAllocationTargetP99Ns = 1000.0
	throughputTargetOpsPerSec   = 500000.0
	consensusTargetMs           = 5.0
	electionTargetMs            = 100.0
	recoveryTargetMs            = 500.0
)

// throughputWindowMs is the fixed measurement window reported by the
// throughput scenario.
const throughputWindowMs = 100.0

// scenarioGroup couples a per-node scenario with its runner. One task per
// node is launched for each group.
type scenarioGroup struct {
	name string
	run  func(ctx context.Context, nodeID int) (TestResult, error)
}

// clusterStep is a sequential, cluster-wide scenario yielding exactly one
// result with node identifier 0.
type clusterStep struct {
	name string
	run  func(ctx context.Context) (TestResult, error)
}

func (o *Orchestrator) performanceGroups() []scenarioGroup {
	return []scenarioGroup{
		{name: ScenarioAIInference, run: o.runAIInference},
		{name: ScenarioContextSwitch, run: o.runContextSwitch},
		{name: ScenarioMemoryAllocation, run: o.runMemoryAllocation},
		{name: ScenarioThroughput, run: o.runThroughput},
	}
}

func (o *Orchestrator) distributedSteps() []clusterStep {
	return []clusterStep{
		{name: ScenarioByzantineConsensus, run: o.runByzantineConsensus},
		{name: ScenarioLeaderElection, run: o.runLeaderElection},
		{name: ScenarioPartitionRecovery, run: o.runPartitionRecovery},
	}
}

func (o *Orchestrator) runAIInference(ctx context.Context, nodeID int) (TestResult, error) {
	start := nowSeconds()

	samples, err := o.backend.NodeSamples(ctx, ScenarioAIInference, nodeID, o.iterations)
	if err != nil {
		return TestResult{}, err
	}

	p99 := stats.Percentile(samples, 99)

	return TestResult{
		TestName:  ScenarioAIInference,
		NodeID:    nodeID,
		StartTime: start,
		EndTime:   nowSeconds(),
		Success:   p99 < aiInferenceTargetP99Us,
		Metrics: map[string]float64{
			"mean_latency_us": stats.Mean(samples),
			"p95_latency_us":  stats.Percentile(samples, 95),
			"p99_latency_us":  p99,
			"std_dev_us":      stats.StdDev(samples),
			"min_latency_us":  stats.Min(samples),
			"max_latency_us":  stats.Max(samples),
			"iterations":      float64(len(samples)),
		},
		Logs: []string{fmt.Sprintf("AI inference test completed on node %d", nodeID)},
	}, nil
}

func (o *Orchestrator) runContextSwitch(ctx context.Context, nodeID int) (TestResult, error) {
	start := nowSeconds()

	samples, err := o.backend.NodeSamples(ctx, ScenarioContextSwitch, nodeID, o.iterations)
	if err != nil {
		return TestResult{}, err
	}

	p95 := stats.Percentile(samples, 95)

	return TestResult{
		TestName:  ScenarioContextSwitch,
		NodeID:    nodeID,
		StartTime: start,
		EndTime:   nowSeconds(),
		Success:   p95 < contextSwitchTargetP95Ns,
		Metrics: map[string]float64{
			"mean_latency_ns": stats.Mean(samples),
			"p95_latency_ns":  p95,
			"p99_latency_ns":  stats.Percentile(samples, 99),
			"std_dev_ns":      stats.StdDev(samples),
			"iterations":      float64(len(samples)),
		},
		Logs: []string{fmt.Sprintf("Context switch test completed on node %d", nodeID)},
	}, nil
}

func (o *Orchestrator) runMemoryAllocation(ctx context.Context, nodeID int) (TestResult, error) {
	start := nowSeconds()

	samples, err := o.backend.NodeSamples(ctx, ScenarioMemoryAllocation, nodeID, o.iterations)
	if err != nil {
		return TestResult{}, err
	}

	p99 := stats.Percentile(samples, 99)

	return TestResult{
		TestName:  ScenarioMemoryAllocation,
		NodeID:    nodeID,
		StartTime: start,
		EndTime:   nowSeconds(),
		Success:   p99 < memoryAllocationTargetP99Ns,
		Metrics: map[string]float64{
			"mean_latency_ns": stats.Mean(samples),
			"p99_latency_ns":  p99,
			"std_dev_ns":      stats.StdDev(samples),
			"iterations":      float64(len(samples)),
		},
		Logs: []string{fmt.Sprintf("Memory allocation test completed on node %d", nodeID)},
	}, nil
}

func (o *Orchestrator) runThroughput(ctx context.Context, nodeID int) (TestResult, error) {
	start := nowSeconds()

	opsPerSec, totalOps, err := o.backend.NodeThroughput(ctx, nodeID, o.iterations)
	if err != nil {
		return TestResult{}, err
	}

	return TestResult{
		TestName:  ScenarioThroughput,
		NodeID:    nodeID,
		StartTime: start,
		EndTime:   nowSeconds(),
		Success:   opsPerSec > throughputTargetOpsPerSec,
		Metrics: map[string]float64{
			"ops_per_second":   opsPerSec,
			"total_operations": totalOps,
			"test_duration_ms": throughputWindowMs,
		},
		Logs: []string{fmt.Sprintf("Throughput test completed on node %d", nodeID)},
	}, nil
}

func (o *Orchestrator) runByzantineConsensus(ctx context.Context) (TestResult, error) {
	start := nowSeconds()

	// f < n/3 for Byzantine fault tolerance.
	f := o.nodes / 3

	consensusMs, err := o.backend.ClusterMeasure(ctx, ScenarioByzantineConsensus, o.nodes)
	if err != nil {
		return TestResult{}, err
	}

	return TestResult{
		TestName:  ScenarioByzantineConsensus,
		NodeID:    0,
		StartTime: start,
		EndTime:   nowSeconds(),
		Success:   consensusMs < consensusTargetMs,
		Metrics: map[string]float64{
			"consensus_time_ms":  consensusMs,
			"total_nodes":        float64(o.nodes),
			"byzantine_nodes":    float64(f),
			"rounds":             3,
			"messages_exchanged": float64(o.nodes * (o.nodes - 1) * 3),
		},
		Logs: []string{fmt.Sprintf("Byzantine consensus test with %d nodes, f=%d", o.nodes, f)},
	}, nil
}

func (o *Orchestrator) runLeaderElection(ctx context.Context) (TestResult, error) {
	start := nowSeconds()

	electionMs, err := o.backend.ClusterMeasure(ctx, ScenarioLeaderElection, o.nodes)
	if err != nil {
		return TestResult{}, err
	}

	return TestResult{
		TestName:  ScenarioLeaderElection,
		NodeID:    0,
		StartTime: start,
		EndTime:   nowSeconds(),
		Success:   electionMs < electionTargetMs,
		Metrics: map[string]float64{
			"election_time_ms": electionMs,
			"total_nodes":      float64(o.nodes),
			"rounds":           2,
		},
		Logs: []string{fmt.Sprintf("Leader election test with %d nodes", o.nodes)},
	}, nil
}

func (o *Orchestrator) runPartitionRecovery(ctx context.Context) (TestResult, error) {
	start := nowSeconds()

	recoveryMs, err := o.backend.ClusterMeasure(ctx, ScenarioPartitionRecovery, o.nodes)
	if err != nil {
		return TestResult{}, err
	}

	return TestResult{
		TestName:  ScenarioPartitionRecovery,
		NodeID:    0,
		StartTime: start,
		EndTime:   nowSeconds(),
		Success:   recoveryMs < recoveryTargetMs,
		Metrics: map[string]float64{
			"recovery_time_ms":  recoveryMs,
			"total_nodes":       float64(o.nodes),
			"partitioned_nodes": float64(o.nodes / 2),
		},
		Logs: []string{fmt.Sprintf("Partition recovery test with %d nodes", o.nodes)},
	}, nil
}
