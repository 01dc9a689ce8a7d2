package gate

import (
	"github.com/sisworks/benchgate/internal/stats"
)

// EvaluateStress runs the stress profile checks against doc: memory
// pressure, chaos recovery, autonomy impact and learning progress, plus
// the cross-run variability check when historical documents are supplied.
func (g *Gate) EvaluateStress(doc *Document, historical []*Document) *Verdict {
	g.log.Debug("Running stress validation checks")

	eval := &evaluation{}

	g.checkMemoryStress(doc, eval)
	g.checkChaosRecovery(doc, eval)
	g.checkAutonomyImpact(doc, eval)
	g.checkLearningProgress(doc, eval)
	g.checkVariability(historical, eval)

	return g.compose(eval)
}

// checkMemoryStress is the only mandatory stress check: a stress document
// without memory results cannot pass.
func (g *Gate) checkMemoryStress(doc *Document, eval *evaluation) {
	if doc.Memory == nil {
		eval.errorf("Memory test results not found")

		return
	}

	mem := doc.Memory

	if mem.PeakPressure != nil && *mem.PeakPressure == stubPeakPressure &&
		mem.OOMEvents != nil && *mem.OOMEvents == stubOOMEvents {
		eval.warnf("Memory test shows deterministic behavior (always 100%% pressure, %d OOMs)", stubOOMEvents)
	}

	oomEvents := 0
	if mem.OOMEvents != nil {
		oomEvents = *mem.OOMEvents
	}

	if oomEvents > g.policy.MaxOOMEvents {
		eval.errorf("Too many OOM events: %d > %d", oomEvents, g.policy.MaxOOMEvents)
	} else {
		eval.passf("Memory test: %d OOM events (within limits)", oomEvents)
	}

	if mem.AvgMemoryPressure == nil || *mem.AvgMemoryPressure == 0 {
		eval.warnf("Average memory pressure not tracked")
	}

	if mem.LatencyP99Ns != nil {
		latencyMs := *mem.LatencyP99Ns / 1e6

		switch {
		case *mem.LatencyP99Ns == 0:
			eval.warnf("Latency percentiles not tracked")
		case latencyMs > g.policy.MaxP99LatencyMs:
			eval.errorf("p99 latency too high: %.2fms > %gms", latencyMs, g.policy.MaxP99LatencyMs)
		default:
			eval.passf("Memory test: p99 latency %.2fms (within limits)", latencyMs)
		}
	}
}

// checkChaosRecovery validates fault injection results when present.
func (g *Gate) checkChaosRecovery(doc *Document, eval *evaluation) {
	if doc.Chaos == nil {
		return
	}

	chaos := doc.Chaos

	if chaos.ChaosEventsCount != nil && *chaos.ChaosEventsCount == stubChaosEventsCount {
		eval.warnf("Chaos test shows deterministic event count (always %d)", stubChaosEventsCount)
	}

	total := chaos.SuccessfulRecoveries + chaos.FailedRecoveries
	if total > 0 {
		successRate := float64(chaos.SuccessfulRecoveries) / float64(total) * 100

		if successRate < minRecoverySuccessRate {
			eval.errorf("Chaos test success rate too low: %.1f%% < %g%%", successRate, minRecoverySuccessRate)
		} else {
			eval.passf("Chaos test: %.1f%% recovery success rate", successRate)
		}
	}

	if chaos.LatencyP95Ns != nil && *chaos.LatencyP95Ns == 0 {
		eval.warnf("Recovery latencies not tracked")
	}
}

// checkAutonomyImpact requires the autonomous kernel to actually intervene,
// and compares OOM outcomes against the autonomy-off baseline when present.
func (g *Gate) checkAutonomyImpact(doc *Document, eval *evaluation) {
	if doc.Compare == nil || doc.Compare.AutonomyOn == nil {
		return
	}

	interventions := doc.Compare.AutonomyOn.Interventions.Total

	if interventions < g.policy.MinAutonomyInterventions {
		eval.errorf("Too few autonomy interventions: %d < %d", interventions, g.policy.MinAutonomyInterventions)
	} else {
		eval.passf("Autonomy: %d interventions recorded", interventions)
	}

	if doc.Compare.AutonomyOff != nil {
		onOOM := doc.Compare.AutonomyOn.OOMEvents
		offOOM := doc.Compare.AutonomyOff.OOMEvents

		if onOOM == offOOM && offOOM > 0 {
			eval.warnf("Autonomy shows no impact on OOM events (both: %d)", onOOM)
		}
	}
}

// checkLearningProgress inspects the reward trajectory of a learning run.
// Flat rewards suggest a stubbed implementation, and the first-to-last
// improvement must clear the policy floor.
func (g *Gate) checkLearningProgress(doc *Document, eval *evaluation) {
	if doc.Learning == nil || len(doc.Learning.Episodes) < 2 {
		return
	}

	episodes := doc.Learning.Episodes

	rewards := make([]float64, len(episodes))
	for i, episode := range episodes {
		rewards[i] = episode.Reward
	}

	first := rewards[0]
	last := rewards[len(rewards)-1]

	if stats.IsConstant(rewards) {
		eval.warnf("All learning rewards identical (%g) - suggests stubbed implementation", first)
	}

	if first > 0 {
		improvementPct := (last - first) / first * 100

		if improvementPct < g.policy.MinLearningImprovementPct {
			eval.warnf("Insufficient learning improvement: %.1f%% < %g%%", improvementPct, g.policy.MinLearningImprovementPct)
		} else {
			eval.passf("Learning: %.1f%% reward improvement", improvementPct)
		}
	}
}
