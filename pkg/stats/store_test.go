package stats

import (
	"reflect"
	"sync"
	"testing"
)

func TestStore_GetOrCreate(t *testing.T) {
	e, err := NewTagExtractor([]TagRule{{Name: "cluster_name", Regex: `^cluster\.((.+?)\.)`}})
	if err != nil {
		t.Fatalf("NewTagExtractor() error = %v", err)
	}
	s := NewStore(e, nil)

	c := s.Counter("cluster.backend.upstream_rq")
	if s.Counter("cluster.backend.upstream_rq") != c {
		t.Error("Counter() returned a different instance for the same name")
	}
	if c.TagExtractedName() != "cluster.upstream_rq" {
		t.Errorf("TagExtractedName() = %q, want cluster.upstream_rq", c.TagExtractedName())
	}
	if want := []Tag{{Name: "cluster_name", Value: "backend"}}; !reflect.DeepEqual(c.Tags(), want) {
		t.Errorf("Tags() = %v, want %v", c.Tags(), want)
	}

	h := s.Histogram("cluster.backend.upstream_rq_time")
	if got := h.CumulativeStatistics().SupportedBuckets(); !reflect.DeepEqual(got, DefaultBuckets()) {
		t.Errorf("SupportedBuckets() = %v, want DefaultBuckets()", got)
	}
}

func TestStore_SortedByName(t *testing.T) {
	s := NewStore(nil, nil)
	for _, n := range []string{"zeta", "alpha", "mid"} {
		s.Gauge(n)
		s.TextReadout(n)
		s.Histogram(n)
		s.Counter(n)
	}

	want := []string{"alpha", "mid", "zeta"}
	check := func(kind string, got []string) {
		t.Helper()
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s() = %v, want %v", kind, got, want)
		}
	}
	check("Counters", names(s.Counters()))
	check("Gauges", names(s.Gauges()))
	check("TextReadouts", names(s.TextReadouts()))
	check("Histograms", names(s.Histograms()))
}

func TestStore_MergeHistograms(t *testing.T) {
	s := NewStore(nil, []float64{1, 10})
	s.Histogram("a").RecordValue(5)
	s.Histogram("b")

	s.MergeHistograms()

	if !s.Histogram("a").Used() {
		t.Error("a.Used() = false after MergeHistograms")
	}
	if s.Histogram("b").Used() {
		t.Error("b.Used() = true without samples")
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore(nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Counter("shared").Inc()
			s.Histogram("shared").RecordValue(1)
		}()
	}
	wg.Wait()

	if got := s.Counter("shared").Value(); got != 16 {
		t.Errorf("Value() = %d, want 16", got)
	}
	if n := len(s.Counters()); n != 1 {
		t.Errorf("len(Counters()) = %d, want 1", n)
	}
}

func names[T Metric](metrics []T) []string {
	out := make([]string, len(metrics))
	for i, m := range metrics {
		out[i] = m.Name()
	}
	return out
}
