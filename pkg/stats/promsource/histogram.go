package promsource

import (
	"math"

	"mercator-hq/statsrender/pkg/stats"
)

// histogramView is a read-only ParentHistogram over gathered buckets.
type histogramView struct {
	name       string
	extracted  string
	tags       []stats.Tag
	interval   *stats.Statistics
	cumulative *stats.Statistics
}

func newHistogramView(name, extracted string, tags []stats.Tag, cumulative, interval bucketCounts) *histogramView {
	return &histogramView{
		name:       name,
		extracted:  extracted,
		tags:       tags,
		interval:   interval.statistics(),
		cumulative: cumulative.statistics(),
	}
}

func (h *histogramView) Name() string             { return h.name }
func (h *histogramView) TagExtractedName() string { return h.extracted }
func (h *histogramView) Tags() []stats.Tag        { return h.tags }
func (h *histogramView) Used() bool               { return h.cumulative.SampleCount() > 0 }

func (h *histogramView) IntervalStatistics() stats.HistogramStatistics   { return h.interval }
func (h *histogramView) CumulativeStatistics() stats.HistogramStatistics { return h.cumulative }

func (h *histogramView) QuantileSummary() string {
	return stats.QuantileSummary(h.Used(), h.interval, h.cumulative)
}

func (h *histogramView) BucketSummary() string {
	return stats.BucketSummary(h.Used(), h.interval, h.cumulative)
}

func (c bucketCounts) statistics() *stats.Statistics {
	supported := stats.SupportedQuantiles()
	quantiles := make([]float64, len(supported))
	for i, q := range supported {
		quantiles[i] = c.quantile(q)
	}
	return stats.NewStatistics(c.bounds, c.counts, supported, quantiles, c.count, c.sum)
}

// quantile estimates q by linear interpolation inside the bucket holding the
// rank. The lowest bucket starts at 0 when its bound is positive. Ranks past
// the last finite bound report that bound. NaN when there are no samples.
func (c bucketCounts) quantile(q float64) float64 {
	if c.count == 0 || len(c.bounds) == 0 {
		return math.NaN()
	}

	rank := q * float64(c.count)
	for i, bound := range c.bounds {
		if float64(c.counts[i]) < rank || c.counts[i] == 0 {
			continue
		}

		lower, below := 0.0, uint64(0)
		if i > 0 {
			lower, below = c.bounds[i-1], c.counts[i-1]
		} else if bound <= 0 {
			return bound
		}
		inBucket := c.counts[i] - below
		if inBucket == 0 {
			return bound
		}
		return lower + (bound-lower)*(rank-float64(below))/float64(inBucket)
	}
	return c.bounds[len(c.bounds)-1]
}
