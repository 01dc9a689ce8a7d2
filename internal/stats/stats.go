// Package stats provides the statistical reductions shared by benchmark
// suites, validation and reporting: percentile interpolation, descriptive
// statistics, z-score anomaly detection and constant-value detection.
package stats

import (
	"math"
	"sort"
)

// DefaultAnomalyThreshold is the z-score above which a sample is flagged
// as anomalous.
const DefaultAnomalyThreshold = 3.0

// minAnomalySamples is the smallest series carrying enough signal for
// z-score detection. Smaller series are never flagged.
const minAnomalySamples = 10

// Tail percentiles are only computed from series large enough to support
// them; below these sizes the maximum is reported instead.
const (
	minP95Samples = 20
	minP99Samples = 100
)

// Description holds the descriptive statistics for one sample series.
type Description struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdev"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Percentile returns the p-th percentile of series using linear
// interpolation between closest ranks. The input is not modified.
// An empty series yields 0.
func Percentile(series []float64, p float64) float64 {
	if len(series) == 0 {
		return 0
	}

	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)

	idx := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}

	weight := idx - float64(lower)

	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}

// Mean returns the arithmetic mean, or 0 for an empty series.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}

	var sum float64
	for _, v := range series {
		sum += v
	}

	return sum / float64(len(series))
}

// StdDev returns the sample standard deviation (n-1 denominator),
// or 0 when fewer than two samples are supplied.
func StdDev(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}

	mean := Mean(series)
	var sum float64
	for _, v := range series {
		d := v - mean
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(series)-1))
}

// Min returns the smallest sample, or 0 for an empty series.
func Min(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}

	m := series[0]
	for _, v := range series[1:] {
		if v < m {
			m = v
		}
	}

	return m
}

// Max returns the largest sample, or 0 for an empty series.
func Max(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}

	m := series[0]
	for _, v := range series[1:] {
		if v > m {
			m = v
		}
	}

	return m
}

// Describe reduces a series to descriptive statistics. Tail percentiles
// degrade gracefully on small series: p95 is a true percentile only when
// the series holds more than 20 samples, p99 only beyond 100; otherwise
// the maximum is reported so small runs never claim precise tails.
func Describe(series []float64) Description {
	n := len(series)
	if n == 0 {
		return Description{}
	}

	desc := Description{
		Count:  n,
		Min:    Min(series),
		Max:    Max(series),
		Mean:   Mean(series),
		Median: Percentile(series, 50),
		StdDev: StdDev(series),
	}

	desc.P95 = desc.Max
	if n > minP95Samples {
		desc.P95 = Percentile(series, 95)
	}

	desc.P99 = desc.Max
	if n > minP99Samples {
		desc.P99 = Percentile(series, 99)
	}

	return desc
}

// DetectAnomalies returns the indices of samples whose z-score against the
// population mean exceeds zThreshold. Series with fewer than 10 samples
// carry too little signal and yield nil. A zero-variance series never
// flags: a constant series is not anomalous, though it may separately be
// suspicious (see IsConstant).
func DetectAnomalies(series []float64, zThreshold float64) []int {
	if len(series) < minAnomalySamples {
		return nil
	}

	mean := Mean(series)

	var sum float64
	for _, v := range series {
		d := v - mean
		sum += d * d
	}
	stdev := math.Sqrt(sum / float64(len(series)))

	var anomalies []int
	for i, v := range series {
		var z float64
		if stdev > 0 {
			z = math.Abs(v-mean) / stdev
		}

		if z > zThreshold {
			anomalies = append(anomalies, i)
		}
	}

	return anomalies
}

// IsConstant reports whether every value in the series is identical.
// Only meaningful when values come from two or more independent runs;
// an empty series is not constant.
func IsConstant(values []float64) bool {
	if len(values) == 0 {
		return false
	}

	first := values[0]
	for _, v := range values[1:] {
		if v != first {
			return false
		}
	}

	return true
}
