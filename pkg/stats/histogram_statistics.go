package stats

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// supportedQuantiles is fixed for every histogram in the process.
var supportedQuantiles = []float64{0, 0.25, 0.5, 0.75, 0.9, 0.95, 0.99, 0.995, 0.999, 1}

// defaultBuckets are the bucket boundaries used when none are configured.
var defaultBuckets = []float64{
	0.5, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000,
	30000, 60000, 300000, 600000, 1800000, 3600000,
}

// SupportedQuantiles returns the quantile ratios computed for every histogram.
func SupportedQuantiles() []float64 { return slices.Clone(supportedQuantiles) }

// DefaultBuckets returns the default histogram bucket boundaries.
func DefaultBuckets() []float64 { return slices.Clone(defaultBuckets) }

// HistogramStatistics is a computed, read-only view of one histogram window.
//
// SupportedBuckets, ComputedBuckets and ComputeDisjointBuckets always have the
// same length, as do SupportedQuantiles and ComputedQuantiles.
type HistogramStatistics interface {
	// SupportedBuckets returns the bucket upper bounds in increasing order.
	SupportedBuckets() []float64

	// SupportedQuantiles returns the quantile ratios in [0, 1].
	SupportedQuantiles() []float64

	// ComputedBuckets returns, per boundary, the number of samples less than
	// or equal to that boundary.
	ComputedBuckets() []uint64

	// ComputeDisjointBuckets returns, per boundary, the number of samples
	// that fell into that bucket alone.
	ComputeDisjointBuckets() []uint64

	// ComputedQuantiles returns one value per supported quantile; NaN when
	// the window holds no samples.
	ComputedQuantiles() []float64

	SampleCount() uint64
	SampleSum() float64
}

// Statistics is the HistogramStatistics implementation used by Histogram.
type Statistics struct {
	supportedBuckets   []float64
	supportedQuantiles []float64
	computedBuckets    []uint64
	computedQuantiles  []float64
	sampleCount        uint64
	sampleSum          float64
}

// NewStatistics builds a statistics view from precomputed values.
func NewStatistics(buckets []float64, computedBuckets []uint64, quantiles, computedQuantiles []float64, count uint64, sum float64) *Statistics {
	return &Statistics{
		supportedBuckets:   buckets,
		supportedQuantiles: quantiles,
		computedBuckets:    computedBuckets,
		computedQuantiles:  computedQuantiles,
		sampleCount:        count,
		sampleSum:          sum,
	}
}

// EmptyStatistics returns a view with no samples over the given buckets.
func EmptyStatistics(buckets []float64) *Statistics {
	quantiles := make([]float64, len(supportedQuantiles))
	for i := range quantiles {
		quantiles[i] = math.NaN()
	}
	return NewStatistics(buckets, make([]uint64, len(buckets)), supportedQuantiles, quantiles, 0, 0)
}

func (s *Statistics) SupportedBuckets() []float64   { return s.supportedBuckets }
func (s *Statistics) SupportedQuantiles() []float64 { return s.supportedQuantiles }
func (s *Statistics) ComputedBuckets() []uint64     { return s.computedBuckets }
func (s *Statistics) ComputedQuantiles() []float64  { return s.computedQuantiles }
func (s *Statistics) SampleCount() uint64           { return s.sampleCount }
func (s *Statistics) SampleSum() float64            { return s.sampleSum }

// ComputeDisjointBuckets converts the cumulative-form bucket counts into
// per-bucket counts.
func (s *Statistics) ComputeDisjointBuckets() []uint64 {
	return DisjointBuckets(s.computedBuckets)
}

// DisjointBuckets returns the difference between consecutive cumulative-form
// bucket counts.
func DisjointBuckets(computed []uint64) []uint64 {
	out := make([]uint64, len(computed))
	var prev uint64
	for i, c := range computed {
		out[i] = c - prev
		prev = c
	}
	return out
}

// noRecordedValues is the summary of a histogram that was never used.
const noRecordedValues = "No recorded values"

// QuantileSummary formats "P<q>(<interval>,<cumulative>)" for every supported
// quantile, separated by spaces.
func QuantileSummary(used bool, interval, cumulative HistogramStatistics) string {
	if !used {
		return noRecordedValues
	}
	quantiles := interval.SupportedQuantiles()
	iv, cv := interval.ComputedQuantiles(), cumulative.ComputedQuantiles()
	n := min(len(quantiles), len(iv), len(cv))

	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, "P"+formatG(QuantilePercent(quantiles[i]))+"("+formatG(iv[i])+","+formatG(cv[i])+")")
	}
	return strings.Join(parts, " ")
}

// BucketSummary formats "B<bound>(<interval>,<cumulative>)" for every
// supported bucket using the cumulative-form counts.
func BucketSummary(used bool, interval, cumulative HistogramStatistics) string {
	if !used {
		return noRecordedValues
	}
	buckets := interval.SupportedBuckets()
	iv, cv := interval.ComputedBuckets(), cumulative.ComputedBuckets()
	n := min(len(buckets), len(iv), len(cv))

	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, "B"+formatG(buckets[i])+"("+strconv.FormatUint(iv[i], 10)+","+strconv.FormatUint(cv[i], 10)+")")
	}
	return strings.Join(parts, " ")
}

// QuantilePercent converts a quantile ratio to a percentage, rounded so that
// ratios such as 0.995 print as 99.5.
func QuantilePercent(q float64) float64 {
	return math.Round(q*1e8) / 1e6
}

func formatG(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
