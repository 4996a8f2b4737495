package stats

import (
	"math"
	"sort"
	"sync"

	"github.com/beorn7/perks/quantile"
)

// ParentHistogram is a histogram together with its interval and cumulative
// statistic views.
type ParentHistogram interface {
	Metric

	IntervalStatistics() HistogramStatistics
	CumulativeStatistics() HistogramStatistics

	// QuantileSummary is a human readable rendering of the computed quantiles.
	QuantileSummary() string

	// BucketSummary is a human readable rendering of the computed buckets.
	BucketSummary() string
}

// quantileTargets are the error bounds handed to the streaming estimator.
// The extreme quantiles 0 and 1 are tracked exactly as min and max.
var quantileTargets = map[float64]float64{
	0.25:  0.01,
	0.5:   0.005,
	0.75:  0.005,
	0.9:   0.001,
	0.95:  0.001,
	0.99:  0.0005,
	0.995: 0.0005,
	0.999: 0.0001,
}

// window accumulates samples for one statistics view.
type window struct {
	stream   *quantile.Stream
	disjoint []uint64
	count    uint64
	sum      float64
	min      float64
	max      float64
}

func newWindow(buckets int) *window {
	return &window{
		stream:   quantile.NewTargeted(quantileTargets),
		disjoint: make([]uint64, buckets),
		min:      math.Inf(1),
		max:      math.Inf(-1),
	}
}

func (w *window) record(bucket int, v float64) {
	w.stream.Insert(v)
	if bucket < len(w.disjoint) {
		w.disjoint[bucket]++
	}
	w.count++
	w.sum += v
	w.min = math.Min(w.min, v)
	w.max = math.Max(w.max, v)
}

func (w *window) reset() {
	w.stream.Reset()
	clear(w.disjoint)
	w.count = 0
	w.sum = 0
	w.min = math.Inf(1)
	w.max = math.Inf(-1)
}

func (w *window) statistics(buckets []float64) *Statistics {
	computed := make([]uint64, len(w.disjoint))
	var running uint64
	for i, c := range w.disjoint {
		running += c
		computed[i] = running
	}

	quantiles := make([]float64, len(supportedQuantiles))
	for i, q := range supportedQuantiles {
		switch {
		case w.count == 0:
			quantiles[i] = math.NaN()
		case q == 0:
			quantiles[i] = w.min
		case q == 1:
			quantiles[i] = w.max
		default:
			quantiles[i] = w.stream.Query(q)
		}
	}
	return NewStatistics(buckets, computed, supportedQuantiles, quantiles, w.count, w.sum)
}

// Histogram records samples and computes interval and cumulative statistics
// at every Merge.
type Histogram struct {
	metadata
	buckets []float64

	mu              sync.Mutex
	pending         *window
	cumulative      *window
	intervalStats   *Statistics
	cumulativeStats *Statistics
	used            bool
}

// NewHistogram creates a histogram outside of a Store. Nil buckets selects
// DefaultBuckets.
func NewHistogram(name, tagExtractedName string, tags []Tag, buckets []float64) *Histogram {
	if buckets == nil {
		buckets = DefaultBuckets()
	}
	return &Histogram{
		metadata:        newMetadata(name, tagExtractedName, tags),
		buckets:         buckets,
		pending:         newWindow(len(buckets)),
		cumulative:      newWindow(len(buckets)),
		intervalStats:   EmptyStatistics(buckets),
		cumulativeStats: EmptyStatistics(buckets),
	}
}

// RecordValue adds a sample. It becomes visible in the statistics after the
// next Merge.
func (h *Histogram) RecordValue(v float64) {
	bucket := sort.SearchFloat64s(h.buckets, v)

	h.mu.Lock()
	h.pending.record(bucket, v)
	h.cumulative.record(bucket, v)
	h.mu.Unlock()
}

// Merge closes the current interval and recomputes both statistic views.
func (h *Histogram) Merge() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending.count > 0 {
		h.used = true
	}
	h.intervalStats = h.pending.statistics(h.buckets)
	h.cumulativeStats = h.cumulative.statistics(h.buckets)
	h.pending.reset()
}

// Used reports whether any merged interval contained a sample.
func (h *Histogram) Used() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.used
}

// IntervalStatistics returns the statistics of the last closed interval.
func (h *Histogram) IntervalStatistics() HistogramStatistics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.intervalStats
}

// CumulativeStatistics returns the statistics since creation, as of the last
// Merge.
func (h *Histogram) CumulativeStatistics() HistogramStatistics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cumulativeStats
}

func (h *Histogram) QuantileSummary() string {
	return QuantileSummary(h.Used(), h.IntervalStatistics(), h.CumulativeStatistics())
}

func (h *Histogram) BucketSummary() string {
	return BucketSummary(h.Used(), h.IntervalStatistics(), h.CumulativeStatistics())
}
