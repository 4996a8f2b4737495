package render

import (
	"bytes"
	"strings"
	"testing"

	"mercator-hq/statsrender/pkg/stats"
)

func TestPrometheusRenderer_MetricName(t *testing.T) {
	r := NewPrometheus("", stats.NewCustomNamespaces("wasm", "custom"))

	tests := []struct {
		extracted string
		want      string
		wantOK    bool
	}{
		{"foo.bar", "envoy_foo_bar", true},
		{"cluster.upstream_rq-total", "envoy_cluster_upstream_rq_total", true},
		{"wasm.plugin.calls", "plugin_calls", true},
		{"custom.3abc", "", false},
		{"custom.", "", false},
		{"wasm", "envoy_wasm", true},
		{"wasmish.calls", "envoy_wasmish_calls", true},
	}

	for _, tt := range tests {
		t.Run(tt.extracted, func(t *testing.T) {
			got, ok := r.MetricName(tt.extracted)
			if ok != tt.wantOK {
				t.Fatalf("MetricName(%q) ok = %v, want %v", tt.extracted, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("MetricName(%q) = %q, want %q", tt.extracted, got, tt.want)
			}
		})
	}
}

func TestPrometheusRenderer_MetricNameCustomPrefix(t *testing.T) {
	r := NewPrometheus("edge_", nil)
	if got, ok := r.MetricName("foo.bar"); !ok || got != "edge_foo_bar" {
		t.Errorf("MetricName(foo.bar) = %q, %v; want edge_foo_bar, true", got, ok)
	}
}

func TestPrometheusRenderer_Counters(t *testing.T) {
	c1 := stats.NewCounter("cluster.a.upstream_rq", "cluster.upstream_rq", []stats.Tag{{Name: "cluster_name", Value: "a"}})
	c1.Add(7)
	c2 := stats.NewCounter("cluster.b.upstream_rq", "cluster.upstream_rq", []stats.Tag{{Name: "cluster_name", Value: "b"}})
	c2.Add(3)

	var buf bytes.Buffer
	r := NewPrometheus("", nil)
	r.GenerateCounters(&buf, "envoy_cluster_upstream_rq", []*stats.Counter{c1, c2})
	r.Finalize(&buf)

	want := "# TYPE envoy_cluster_upstream_rq counter\n" +
		"envoy_cluster_upstream_rq{cluster_name=\"a\"} 7\n" +
		"envoy_cluster_upstream_rq{cluster_name=\"b\"} 3\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestPrometheusRenderer_GaugeWithoutTags(t *testing.T) {
	g := stats.NewGauge("active", "", nil)
	g.Set(3)

	var buf bytes.Buffer
	NewPrometheus("", nil).GenerateGauges(&buf, "envoy_active", []*stats.Gauge{g})

	want := "# TYPE envoy_active gauge\nenvoy_active{} 3\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrometheusRenderer_TextReadouts(t *testing.T) {
	tags := []stats.Tag{{Name: "node", Value: "n1"}}
	tr := stats.NewTextReadout("version.n1", "version", tags)
	tr.Set(`1.0 "rc"`)

	var buf bytes.Buffer
	NewPrometheus("", nil).GenerateTextReadouts(&buf, "envoy_version", []*stats.TextReadout{tr})

	want := "# TYPE envoy_version gauge\n" +
		"envoy_version{node=\"n1\",text_value=\"1.0 \\\"rc\\\"\"} 0\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if n := len(tr.Tags()); n != 1 {
		t.Errorf("len(Tags()) = %d after render, want 1", n)
	}
}

func TestPrometheusRenderer_Histogram(t *testing.T) {
	h := bucketHistogram("rq_time", []float64{0.5, 1, 5}, []uint64{0, 0, 0}, []uint64{2, 5, 7})
	h.tags = []stats.Tag{{Name: "cluster_name", Value: "a"}}
	h.cumulative = stats.NewStatistics([]float64{0.5, 1, 5}, []uint64{2, 5, 7}, nil, nil, 9, 125.5)

	var buf bytes.Buffer
	NewPrometheus("", nil).GenerateHistograms(&buf, "envoy_rq_time", []stats.ParentHistogram{h})

	want := "# TYPE envoy_rq_time histogram\n" +
		"envoy_rq_time_bucket{cluster_name=\"a\",le=\"0.5\"} 2\n" +
		"envoy_rq_time_bucket{cluster_name=\"a\",le=\"1\"} 5\n" +
		"envoy_rq_time_bucket{cluster_name=\"a\",le=\"5\"} 7\n" +
		"envoy_rq_time_bucket{cluster_name=\"a\",le=\"+Inf\"} 9\n" +
		"envoy_rq_time_sum{cluster_name=\"a\"} 125.5\n" +
		"envoy_rq_time_count{cluster_name=\"a\"} 9\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestPrometheusRenderer_HistogramWithoutTags(t *testing.T) {
	h := &fakeHistogram{
		name:       "idle",
		interval:   stats.EmptyStatistics([]float64{3600000}),
		cumulative: stats.EmptyStatistics([]float64{3600000}),
	}

	var buf bytes.Buffer
	NewPrometheus("", nil).GenerateHistograms(&buf, "envoy_idle", []stats.ParentHistogram{h})

	want := "# TYPE envoy_idle histogram\n" +
		"envoy_idle_bucket{le=\"3600000\"} 0\n" +
		"envoy_idle_bucket{le=\"+Inf\"} 0\n" +
		"envoy_idle_sum{} 0\n" +
		"envoy_idle_count{} 0\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestPrometheusRenderer_EmptyFamily(t *testing.T) {
	var buf bytes.Buffer
	r := NewPrometheus("", nil)
	r.GenerateCounters(&buf, "envoy_none", nil)
	r.GenerateHistograms(&buf, "envoy_none", nil)
	r.Finalize(&buf)
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestPrometheusRenderer_HistogramLengthMismatch(t *testing.T) {
	h := &fakeHistogram{
		name:       "h1",
		interval:   stats.EmptyStatistics([]float64{1, 2}),
		cumulative: stats.NewStatistics([]float64{1, 2}, []uint64{1}, nil, nil, 1, 1),
	}

	expectContractViolation(t, func() {
		NewPrometheus("", nil).GenerateHistograms(&bytes.Buffer{}, "envoy_h1", []stats.ParentHistogram{h})
	})
}

func TestFormattedTags(t *testing.T) {
	tests := []struct {
		name string
		tags []stats.Tag
		want string
	}{
		{"none", nil, ""},
		{"single", []stats.Tag{{Name: "a", Value: "1"}}, `a="1"`},
		{
			"order preserved",
			[]stats.Tag{{Name: "z", Value: "1"}, {Name: "a", Value: "2"}},
			`z="1",a="2"`,
		},
		{
			"sanitized",
			[]stats.Tag{{Name: "envoy.cluster", Value: "a\\b\n\"c\""}},
			`envoy_cluster="a\\b\n\"c\""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormattedTags(tt.tags); got != tt.want {
				t.Errorf("FormattedTags() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "0.5"},
		{1, "1"},
		{3600000, "3600000"},
		{1e21, "1000000000000000000000"},
		{0.0001, "0.0001"},
	}

	for _, tt := range tests {
		got := formatFixed(tt.in)
		if got != tt.want {
			t.Errorf("formatFixed(%v) = %s, want %s", tt.in, got, tt.want)
		}
		if strings.ContainsAny(got, "eE") {
			t.Errorf("formatFixed(%v) = %s uses an exponent", tt.in, got)
		}
	}
}
