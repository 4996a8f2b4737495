package render

import (
	"strconv"

	"mercator-hq/statsrender/pkg/stats"
)

// TextRenderer writes one "<name>: <value>" line per stat.
type TextRenderer struct {
	mode BucketMode
}

// NewText creates a text renderer.
func NewText(mode BucketMode) *TextRenderer {
	return &TextRenderer{mode: mode}
}

func (r *TextRenderer) GenerateValue(out Sink, name string, value uint64) {
	out.WriteString(name)
	out.WriteString(": ")
	out.WriteString(strconv.FormatUint(value, 10))
	out.WriteString("\n")
}

// GenerateString writes the value in double quotes. The value is not escaped.
func (r *TextRenderer) GenerateString(out Sink, name, value string) {
	out.WriteString(name)
	out.WriteString(": \"")
	out.WriteString(value)
	out.WriteString("\"\n")
}

func (r *TextRenderer) GenerateHistogram(out Sink, name string, h stats.ParentHistogram) {
	switch r.mode {
	case Cumulative:
		out.WriteString(name + ": " + h.BucketSummary() + "\n")
	case Disjoint:
		r.writeDisjointBuckets(out, name, h)
	default:
		out.WriteString(name + ": " + h.QuantileSummary() + "\n")
	}
}

func (r *TextRenderer) Finalize(Sink) {}

// writeDisjointBuckets writes B<bound>(<interval>,<cumulative>) per bucket.
func (r *TextRenderer) writeDisjointBuckets(out Sink, name string, h stats.ParentHistogram) {
	if !h.Used() {
		out.WriteString(name + ": No recorded values\n")
		return
	}

	interval := h.IntervalStatistics()
	bounds := interval.SupportedBuckets()
	iv := interval.ComputeDisjointBuckets()
	cv := h.CumulativeStatistics().ComputeDisjointBuckets()
	mustSameLength(name, "disjoint bucket", len(bounds), len(iv), len(cv))

	b := make([]byte, 0, len(name)+2+len(bounds)*16)
	b = append(b, name...)
	b = append(b, ": "...)
	for i, bound := range bounds {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, 'B')
		b = strconv.AppendFloat(b, bound, 'g', -1, 64)
		b = append(b, '(')
		b = strconv.AppendUint(b, iv[i], 10)
		b = append(b, ',')
		b = strconv.AppendUint(b, cv[i], 10)
		b = append(b, ')')
	}
	b = append(b, '\n')
	out.Write(b)
}
