package gate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Known defaults of the simulated stress backend. A run reporting exactly
// these values is assumed stubbed rather than measured.
const (
	stubPeakPressure     = 100.0
	stubOOMEvents        = 4
	stubChaosEventsCount = 265
)

// minRecoverySuccessRate is the fixed floor for chaos recovery, in percent.
const minRecoverySuccessRate = 50.0

// ThresholdPolicy fixes the bounds every gate check evaluates against.
// Zero values are meaningful, so overrides are merged over DefaultPolicy
// rather than over an empty struct.
type ThresholdPolicy struct {
	MinOverallScore            float64 `yaml:"min_overall_score" json:"min_overall_score"`
	MinSecurityCoverage        float64 `yaml:"min_security_coverage" json:"min_security_coverage"`
	MinCorrectnessCoverage     float64 `yaml:"min_correctness_coverage" json:"min_correctness_coverage"`
	MinPerformanceCoverage     float64 `yaml:"min_performance_coverage" json:"min_performance_coverage"`
	MinAICoverage              float64 `yaml:"min_ai_coverage" json:"min_ai_coverage"`
	MaxMemorySafetyViolations  int     `yaml:"max_memory_safety_violations" json:"max_memory_safety_violations"`
	MaxCriticalVulnerabilities int     `yaml:"max_critical_vulnerabilities" json:"max_critical_vulnerabilities"`
	MinAIAccuracy              float64 `yaml:"min_ai_accuracy" json:"min_ai_accuracy"`
	MaxAcceptableFailures      int     `yaml:"max_acceptable_failures" json:"max_acceptable_failures"`
	MaxOOMEvents               int     `yaml:"max_oom_events" json:"max_oom_events"`
	MaxP99LatencyMs            float64 `yaml:"max_p99_latency_ms" json:"max_p99_latency_ms"`
	MinAutonomyInterventions   int     `yaml:"min_autonomy_interventions" json:"min_autonomy_interventions"`
	MinLearningImprovementPct  float64 `yaml:"min_learning_improvement_pct" json:"min_learning_improvement_pct"`
}

// DefaultPolicy returns the production release thresholds.
func DefaultPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		MinOverallScore:            80.0,
		MinSecurityCoverage:        100.0,
		MinCorrectnessCoverage:     100.0,
		MinPerformanceCoverage:     50.0,
		MinAICoverage:              95.0,
		MaxMemorySafetyViolations:  0,
		MaxCriticalVulnerabilities: 0,
		MinAIAccuracy:              99.9,
		MaxAcceptableFailures:      2,
		MaxOOMEvents:               10,
		MaxP99LatencyMs:            5.0,
		MinAutonomyInterventions:   5,
		MinLearningImprovementPct:  15.0,
	}
}

// LoadPolicy reads a YAML policy file and merges it over the defaults.
// Keys absent from the file keep their default values.
func LoadPolicy(path string) (ThresholdPolicy, error) {
	policy := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("reading policy file: %w", err)
	}

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	return policy, nil
}
