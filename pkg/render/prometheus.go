package render

import (
	"strconv"
	"strings"

	"github.com/prometheus/common/model"

	"mercator-hq/statsrender/pkg/stats"
)

// DefaultPrefix is prepended to every metric outside a custom namespace.
const DefaultPrefix = "envoy_"

// PrometheusRenderer writes the Prometheus text exposition format.
//
// Output is grouped by metric family: the driver collects all stats that
// share a tag-extracted name, resolves the family name with MetricName and
// hands the whole family to one Generate call. Each call writes a TYPE line
// followed by one line per series, so the renderer keeps no state between
// calls. Histograms are always written from their cumulative view.
type PrometheusRenderer struct {
	prefix     string
	namespaces *stats.CustomNamespaces
}

// NewPrometheus creates a Prometheus renderer. An empty prefix selects
// DefaultPrefix; namespaces may be nil.
func NewPrometheus(prefix string, namespaces *stats.CustomNamespaces) *PrometheusRenderer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &PrometheusRenderer{prefix: prefix, namespaces: namespaces}
}

// MetricName returns the exported family name for a tag-extracted name.
//
// A name in a registered custom namespace loses the namespace segment and is
// exported without the prefix. Such a name is only valid if, once sanitized,
// it is non-empty and does not start with a digit; ok is false otherwise and
// the family must be left out of the output. All other names are sanitized
// and prefixed.
func (r *PrometheusRenderer) MetricName(extracted string) (name string, ok bool) {
	if stripped, found := r.namespaces.StripRegisteredPrefix(extracted); found {
		name = SanitizeName(stripped)
		if name == "" || (name[0] >= '0' && name[0] <= '9') {
			return "", false
		}
		return name, true
	}
	return r.prefix + SanitizeName(extracted), true
}

// GenerateCounters writes a counter family.
func (r *PrometheusRenderer) GenerateCounters(out Sink, name string, family []*stats.Counter) {
	writeFamily(out, name, model.MetricTypeCounter, family, func(c *stats.Counter) {
		writeSample(out, name, "", FormattedTags(c.Tags()), strconv.FormatUint(c.Value(), 10))
	})
}

// GenerateGauges writes a gauge family.
func (r *PrometheusRenderer) GenerateGauges(out Sink, name string, family []*stats.Gauge) {
	writeFamily(out, name, model.MetricTypeGauge, family, func(g *stats.Gauge) {
		writeSample(out, name, "", FormattedTags(g.Tags()), strconv.FormatUint(g.Value(), 10))
	})
}

// GenerateTextReadouts writes a text readout family as gauges with value 0.
// The readout value travels in an extra text_value label.
func (r *PrometheusRenderer) GenerateTextReadouts(out Sink, name string, family []*stats.TextReadout) {
	writeFamily(out, name, model.MetricTypeGauge, family, func(t *stats.TextReadout) {
		src := t.Tags()
		tags := make([]stats.Tag, len(src), len(src)+1)
		copy(tags, src)
		tags = append(tags, stats.Tag{Name: "text_value", Value: t.Value()})
		writeSample(out, name, "", FormattedTags(tags), "0")
	})
}

// GenerateHistograms writes a histogram family from the cumulative view of
// each series.
func (r *PrometheusRenderer) GenerateHistograms(out Sink, name string, family []stats.ParentHistogram) {
	writeFamily(out, name, model.MetricTypeHistogram, family, func(h stats.ParentHistogram) {
		writeHistogram(out, name, h)
	})
}

// Finalize is a no-op; every family is complete when its Generate call
// returns.
func (r *PrometheusRenderer) Finalize(Sink) {}

// FormattedTags renders tags as name="value" pairs joined by commas, in the
// order given.
func FormattedTags(tags []stats.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range tags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(SanitizeName(t.Name))
		b.WriteString(`="`)
		b.WriteString(SanitizeValue(t.Value))
		b.WriteByte('"')
	}
	return b.String()
}

func writeFamily[T any](out Sink, name string, typ model.MetricType, family []T, series func(T)) {
	if len(family) == 0 {
		return
	}
	out.WriteString("# TYPE " + name + " " + string(typ) + "\n")
	for _, m := range family {
		series(m)
	}
}

// writeSample writes <name><suffix>{<tags>} <value>.
func writeSample(out Sink, name, suffix, tags, value string) {
	out.WriteString(name)
	out.WriteString(suffix)
	out.WriteString("{")
	out.WriteString(tags)
	out.WriteString("} ")
	out.WriteString(value)
	out.WriteString("\n")
}

func writeHistogram(out Sink, name string, h stats.ParentHistogram) {
	tags := FormattedTags(h.Tags())
	bucketTags := tags
	if bucketTags != "" {
		bucketTags += ","
	}

	cumulative := h.CumulativeStatistics()
	bounds := cumulative.SupportedBuckets()
	counts := cumulative.ComputedBuckets()
	mustSameLength(h.Name(), "cumulative bucket", len(bounds), len(counts))

	for i, bound := range bounds {
		writeSample(out, name, "_bucket", bucketTags+`le="`+formatFixed(bound)+`"`,
			strconv.FormatUint(counts[i], 10))
	}
	count := strconv.FormatUint(cumulative.SampleCount(), 10)
	writeSample(out, name, "_bucket", bucketTags+`le="+Inf"`, count)
	writeSample(out, name, "_sum", tags, formatFixed(cumulative.SampleSum()))
	writeSample(out, name, "_count", tags, count)
}

// formatFixed prints v in the shortest fixed-point form that round-trips,
// never in scientific notation.
func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
