// Package promsource exposes the metrics of a Prometheus registry as stats,
// so the process runtime metrics are served by the admin stats endpoint next
// to the native stats.
package promsource

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"mercator-hq/statsrender/pkg/stats"
)

// DefaultPrefix is the first name segment of every bridged stat.
const DefaultPrefix = "runtime"

// Snapshot is the set of stats produced by one Gather call. Each slice is
// sorted by stat name.
type Snapshot struct {
	Counters   []*stats.Counter
	Gauges     []*stats.Gauge
	Histograms []stats.ParentHistogram
}

// Len returns the number of stats in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Counters) + len(s.Gauges) + len(s.Histograms)
}

// Source converts gathered metric families into stats.
//
// Family "go_goroutines" with prefix "runtime" becomes the stat
// "runtime.go_goroutines". Label values are appended as extra name segments
// and reported as tags, so the tag-extracted name stays "<prefix>.<family>".
//
// Histogram interval statistics are the difference between the current
// buckets and the baseline captured by the last Flush.
type Source struct {
	gatherer prometheus.Gatherer
	prefix   string
	logger   *slog.Logger

	mu       sync.Mutex
	baseline map[string]bucketCounts
}

type bucketCounts struct {
	bounds []float64
	counts []uint64
	count  uint64
	sum    float64
}

// New creates a Source reading from g. An empty prefix selects DefaultPrefix.
func New(g prometheus.Gatherer, prefix string) *Source {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Source{
		gatherer: g,
		prefix:   prefix,
		logger:   slog.Default().With("component", "stats.promsource"),
		baseline: make(map[string]bucketCounts),
	}
}

// Snapshot gathers the registry and converts every supported family.
// Summaries are skipped and untyped metrics become gauges. Float values are
// truncated toward zero and negative values are reported as 0.
func (s *Source) Snapshot() (*Snapshot, error) {
	families, err := s.gatherer.Gather()
	if err != nil && len(families) == 0 {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	if err != nil {
		s.logger.Warn("partial gather", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{}
	for _, mf := range families {
		extracted := s.prefix + "." + mf.GetName()
		for _, m := range mf.GetMetric() {
			name, tags := seriesName(extracted, m.GetLabel())

			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				c := stats.NewCounter(name, extracted, tags)
				if v := toUint(m.GetCounter().GetValue()); v > 0 {
					c.Add(v)
				}
				snap.Counters = append(snap.Counters, c)
			case dto.MetricType_GAUGE:
				g := stats.NewGauge(name, extracted, tags)
				g.Set(toUint(m.GetGauge().GetValue()))
				snap.Gauges = append(snap.Gauges, g)
			case dto.MetricType_UNTYPED:
				g := stats.NewGauge(name, extracted, tags)
				g.Set(toUint(m.GetUntyped().GetValue()))
				snap.Gauges = append(snap.Gauges, g)
			case dto.MetricType_HISTOGRAM:
				cur := histogramCounts(m.GetHistogram())
				snap.Histograms = append(snap.Histograms,
					newHistogramView(name, extracted, tags, cur, cur.since(s.baseline[name])))
			}
		}
	}

	slices.SortFunc(snap.Counters, byName[*stats.Counter])
	slices.SortFunc(snap.Gauges, byName[*stats.Gauge])
	slices.SortFunc(snap.Histograms, byName[stats.ParentHistogram])
	return snap, nil
}

func byName[T stats.Metric](a, b T) int { return cmp.Compare(a.Name(), b.Name()) }

// Flush records the current histogram buckets as the baseline for the next
// interval.
func (s *Source) Flush() error {
	families, err := s.gatherer.Gather()
	if err != nil && len(families) == 0 {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	baseline := make(map[string]bucketCounts)
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_HISTOGRAM {
			continue
		}
		extracted := s.prefix + "." + mf.GetName()
		for _, m := range mf.GetMetric() {
			name, _ := seriesName(extracted, m.GetLabel())
			baseline[name] = histogramCounts(m.GetHistogram())
		}
	}

	s.mu.Lock()
	s.baseline = baseline
	s.mu.Unlock()
	return nil
}

// seriesName appends the label values to the family name.
func seriesName(extracted string, labels []*dto.LabelPair) (string, []stats.Tag) {
	if len(labels) == 0 {
		return extracted, nil
	}
	var b strings.Builder
	b.WriteString(extracted)
	tags := make([]stats.Tag, 0, len(labels))
	for _, lp := range labels {
		b.WriteByte('.')
		b.WriteString(lp.GetValue())
		tags = append(tags, stats.Tag{Name: lp.GetName(), Value: lp.GetValue()})
	}
	return b.String(), tags
}

func toUint(v float64) uint64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(v)
}

func histogramCounts(h *dto.Histogram) bucketCounts {
	c := bucketCounts{count: h.GetSampleCount(), sum: h.GetSampleSum()}
	for _, b := range h.GetBucket() {
		if math.IsInf(b.GetUpperBound(), 1) {
			continue
		}
		c.bounds = append(c.bounds, b.GetUpperBound())
		c.counts = append(c.counts, b.GetCumulativeCount())
	}
	return c
}

// since returns c minus base. A base with different bounds or a higher count,
// as after a registry reset, is ignored.
func (c bucketCounts) since(base bucketCounts) bucketCounts {
	if base.count > c.count || len(base.counts) != len(c.counts) {
		return c
	}
	for i := range base.bounds {
		if base.bounds[i] != c.bounds[i] || base.counts[i] > c.counts[i] {
			return c
		}
	}

	d := bucketCounts{
		bounds: c.bounds,
		counts: make([]uint64, len(c.counts)),
		count:  c.count - base.count,
		sum:    c.sum - base.sum,
	}
	for i := range c.counts {
		d.counts[i] = c.counts[i] - base.counts[i]
	}
	return d
}
