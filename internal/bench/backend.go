package bench

import (
	"context"
	"fmt"
)

// Backend produces the raw measurements scenario tasks reduce and judge.
// Implementations may drive a real cluster; the synthetic backend models
// the reference deployment with closed-form arithmetic so runs are
// reproducible. All methods must honor ctx cancellation.
type Backend interface {
	// NodeSamples returns one latency sample per iteration for a per-node
	// scenario on the given node.
	NodeSamples(ctx context.Context, scenario string, nodeID, iterations int) ([]float64, error)

	// NodeThroughput returns the sustained operation rate observed on one
	// node together with the total operations completed.
	NodeThroughput(ctx context.Context, nodeID, iterations int) (opsPerSec, totalOps float64, err error)

	// ClusterMeasure runs one cluster-wide scenario against a cluster of
	// the given size and returns its headline measurement.
	ClusterMeasure(ctx context.Context, scenario string, nodes int) (float64, error)
}

// SyntheticBackend synthesizes deterministic measurements mirroring the
// simulated multi-node deployment: latencies grow linearly with iteration
// index and node identifier, cluster times scale with cluster size.
type SyntheticBackend struct{}

// NewSyntheticBackend creates the default measurement backend.
func NewSyntheticBackend() *SyntheticBackend {
	return &SyntheticBackend{}
}

func (b *SyntheticBackend) NodeSamples(ctx context.Context, scenario string, nodeID, iterations int) ([]float64, error) {
	var base, perIteration, perNode float64

	switch scenario {
	case ScenarioAIInference:
		base, perIteration, perNode = 20.5, 0.1, 0.5
	case ScenarioContextSwitch:
		base, perIteration, perNode = 300.0, 0.1, 2.0
	case ScenarioMemoryAllocation:
		base, perIteration, perNode = 150.0, 0.05, 1.0
	default:
		return nil, fmt.Errorf("unknown per-node scenario %q", scenario) //nolint:err113 // scenario name needed for debugging
	}

	samples := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		// Stay cancellable on large iteration counts.
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		samples = append(samples, base+float64(i)*perIteration+float64(nodeID)*perNode)
	}

	return samples, nil
}

func (b *SyntheticBackend) NodeThroughput(ctx context.Context, nodeID, iterations int) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	opsPerSec := 1000000.0 + float64(nodeID)*10000.0

	return opsPerSec, float64(iterations), nil
}

func (b *SyntheticBackend) ClusterMeasure(ctx context.Context, scenario string, nodes int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n := float64(nodes)

	switch scenario {
	case ScenarioByzantineConsensus:
		return 3.5 + n*0.1, nil
	case ScenarioLeaderElection:
		return 75.0 + n*2.0, nil
	case ScenarioPartitionRecovery:
		return 200.0 + n*5.0, nil
	default:
		return 0, fmt.Errorf("unknown cluster scenario %q", scenario) //nolint:err113 // scenario name needed for debugging
	}
}

// Compile-time interface compliance check
var _ Backend = (*SyntheticBackend)(nil)
