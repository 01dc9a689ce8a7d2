package gate

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMalformedInput marks results documents that cannot be decoded at all,
// as opposed to documents that decode but fail validation checks.
var ErrMalformedInput = errors.New("malformed results document")

//go:embed document.schema.json
var documentSchemaJSON string

var documentSchema = jsonschema.MustCompileString("document.schema.json", documentSchemaJSON)

// Document is one kernel validation results document. Sections are pointers
// so that a missing section can be told apart from a present-but-zero one.
type Document struct {
	Summary           *SummarySection    `json:"summary,omitempty"`
	Coverage          *CoverageSection   `json:"coverage,omitempty"`
	ValidationResults []ValidationResult `json:"validation_results,omitempty"`
	Memory            *MemorySection     `json:"memory,omitempty"`
	Chaos             *ChaosSection      `json:"chaos,omitempty"`
	Compare           *CompareSection    `json:"compare,omitempty"`
	Learning          *LearningSection   `json:"learning,omitempty"`
}

// SummarySection carries the aggregate score of a validation run.
type SummarySection struct {
	OverallScore float64 `json:"overall_score"`
}

// CoverageSection carries per-area coverage fractions in [0, 1].
type CoverageSection struct {
	Security    float64 `json:"security_coverage"`
	Correctness float64 `json:"correctness_coverage"`
	Performance float64 `json:"performance_coverage"`
	AI          float64 `json:"ai_coverage"`
}

// ValidationResult is a single pass/fail claim from the kernel test run.
// Measured is a pointer because an absent measurement defaults differently
// from an empty one.
type ValidationResult struct {
	Claim    string  `json:"claim"`
	Passed   bool    `json:"passed"`
	Measured *string `json:"measured,omitempty"`
}

// MemorySection holds memory stress results. All fields are optional.
type MemorySection struct {
	PeakPressure      *float64 `json:"peak_pressure,omitempty"`
	OOMEvents         *int     `json:"oom_events,omitempty"`
	AvgMemoryPressure *float64 `json:"avg_memory_pressure,omitempty"`
	LatencyP99Ns      *float64 `json:"latency_p99_ns,omitempty"`
}

// ChaosSection holds fault injection and recovery results.
type ChaosSection struct {
	ChaosEventsCount     *int     `json:"chaos_events_count,omitempty"`
	SuccessfulRecoveries int      `json:"successful_recoveries"`
	FailedRecoveries     int      `json:"failed_recoveries"`
	LatencyP95Ns         *float64 `json:"latency_p95_ns,omitempty"`
}

// CompareSection holds the autonomy on/off comparison runs.
type CompareSection struct {
	AutonomyOn  *AutonomyRun `json:"autonomy_on,omitempty"`
	AutonomyOff *AutonomyRun `json:"autonomy_off,omitempty"`
}

// AutonomyRun is one side of an autonomy comparison.
type AutonomyRun struct {
	Interventions InterventionStats `json:"interventions"`
	OOMEvents     int               `json:"oom_events"`
}

// InterventionStats counts autonomous kernel interventions during a run.
type InterventionStats struct {
	Total int `json:"total"`
}

// LearningSection holds the reward trajectory of a learning soak run.
type LearningSection struct {
	Episodes []Episode `json:"episodes,omitempty"`
}

// Episode is a single learning episode observation.
type Episode struct {
	Reward float64 `json:"reward"`
}

// LoadDocument reads, shape-validates and decodes a results document from
// path. Any failure on this path is an input error, not a finding.
func LoadDocument(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedInput, err)
	}

	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// ParseDocument validates raw against the document schema and decodes it.
func ParseDocument(raw []byte) (*Document, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedInput, err)
	}

	if err := documentSchema.Validate(payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedInput, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedInput, err)
	}

	return &doc, nil
}

// MeasuredValue returns the measured field, defaulting an absent
// measurement to "0%" so unmeasured claims fail their thresholds instead
// of slipping through.
func (r ValidationResult) MeasuredValue() string {
	if r.Measured == nil {
		return "0%"
	}

	return *r.Measured
}

// ClaimName returns the claim text, naming blank claims explicitly.
func (r ValidationResult) ClaimName() string {
	if r.Claim == "" {
		return "Unknown test"
	}

	return r.Claim
}
