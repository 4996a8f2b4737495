package stats

import (
	"cmp"
	"slices"
	"sync"
)

// Store owns every statistic in the process. Stats are created on first use
// and live for the lifetime of the Store.
type Store struct {
	extractor *TagExtractor
	buckets   []float64

	mu           sync.RWMutex
	counters     map[string]*Counter
	gauges       map[string]*Gauge
	textReadouts map[string]*TextReadout
	histograms   map[string]*Histogram
}

// NewStore creates an empty store. A nil extractor disables tag extraction
// and nil buckets selects DefaultBuckets.
func NewStore(extractor *TagExtractor, buckets []float64) *Store {
	if buckets == nil {
		buckets = DefaultBuckets()
	}
	return &Store{
		extractor:    extractor,
		buckets:      buckets,
		counters:     make(map[string]*Counter),
		gauges:       make(map[string]*Gauge),
		textReadouts: make(map[string]*TextReadout),
		histograms:   make(map[string]*Histogram),
	}
}

// getOrCreate looks name up in m and creates it with newFn when missing.
func getOrCreate[T any](s *Store, m map[string]T, name string, newFn func(extracted string, tags []Tag) T) T {
	s.mu.RLock()
	v, ok := m[name]
	s.mu.RUnlock()
	if ok {
		return v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := m[name]; ok {
		return v
	}
	extracted, tags := s.extractor.Extract(name)
	v = newFn(extracted, tags)
	m[name] = v
	return v
}

// Counter returns the counter with the given name, creating it if needed.
func (s *Store) Counter(name string) *Counter {
	return getOrCreate(s, s.counters, name, func(extracted string, tags []Tag) *Counter {
		return NewCounter(name, extracted, tags)
	})
}

// Gauge returns the gauge with the given name, creating it if needed.
func (s *Store) Gauge(name string) *Gauge {
	return getOrCreate(s, s.gauges, name, func(extracted string, tags []Tag) *Gauge {
		return NewGauge(name, extracted, tags)
	})
}

// TextReadout returns the text readout with the given name, creating it if
// needed.
func (s *Store) TextReadout(name string) *TextReadout {
	return getOrCreate(s, s.textReadouts, name, func(extracted string, tags []Tag) *TextReadout {
		return NewTextReadout(name, extracted, tags)
	})
}

// Histogram returns the histogram with the given name, creating it if needed.
func (s *Store) Histogram(name string) *Histogram {
	return getOrCreate(s, s.histograms, name, func(extracted string, tags []Tag) *Histogram {
		return NewHistogram(name, extracted, tags, s.buckets)
	})
}

func sortedValues[T Metric](s *Store, m map[string]T) []T {
	s.mu.RLock()
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(a.Name(), b.Name()) })
	return out
}

// Counters returns all counters sorted by name.
func (s *Store) Counters() []*Counter { return sortedValues(s, s.counters) }

// Gauges returns all gauges sorted by name.
func (s *Store) Gauges() []*Gauge { return sortedValues(s, s.gauges) }

// TextReadouts returns all text readouts sorted by name.
func (s *Store) TextReadouts() []*TextReadout { return sortedValues(s, s.textReadouts) }

// Histograms returns all histograms sorted by name.
func (s *Store) Histograms() []*Histogram { return sortedValues(s, s.histograms) }

// MergeHistograms closes the current interval of every histogram.
func (s *Store) MergeHistograms() {
	for _, h := range s.Histograms() {
		h.Merge()
	}
}
