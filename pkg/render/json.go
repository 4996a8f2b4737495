package render

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/valyala/fastjson"

	"mercator-hq/statsrender/pkg/stats"
)

// JSONRenderer writes the {"stats":[...]} document.
//
// Counters, gauges and text readouts stream straight to the sink. Histograms
// are collected in a request-lifetime accumulator and written as a single
// {"histograms":...} element at Finalize, because the shape of that element
// depends on the bucket mode and shares the supported quantiles between all
// histograms. Histograms are usually far fewer than scalar stats, so the
// buffer stays small.
type JSONRenderer struct {
	mode       BucketMode
	delim      string
	histograms histogramAccumulator
	dropped    int
	logger     *slog.Logger
}

// NewJSON creates a JSON renderer and writes the document preamble to out.
func NewJSON(out Sink, mode BucketMode) *JSONRenderer {
	out.WriteString(`{"stats":[`)
	return &JSONRenderer{
		mode:   mode,
		logger: slog.Default().With("component", "render.json"),
	}
}

// GenerateValue writes {"name":<name>,"value":<value>}.
func (r *JSONRenderer) GenerateValue(out Sink, name string, value uint64) {
	out.WriteString(r.delim)
	out.WriteString(`{"name":`)
	out.Write(jsonString(name))
	out.WriteString(`,"value":`)
	out.WriteString(strconv.FormatUint(value, 10))
	out.WriteString("}")
	r.delim = ","
}

// GenerateString writes {"name":<name>,"value":"<value>"}.
func (r *JSONRenderer) GenerateString(out Sink, name, value string) {
	out.WriteString(r.delim)
	out.WriteString(`{"name":`)
	out.Write(jsonString(name))
	out.WriteString(`,"value":`)
	out.Write(jsonString(value))
	out.WriteString("}")
	r.delim = ","
}

// GenerateHistogram buffers the histogram; nothing is written to out.
func (r *JSONRenderer) GenerateHistogram(_ Sink, name string, h stats.ParentHistogram) {
	switch r.mode {
	case Cumulative:
		r.histograms.addBuckets(name, h.IntervalStatistics().SupportedBuckets(),
			h.IntervalStatistics().ComputedBuckets(), h.CumulativeStatistics().ComputedBuckets())
	case Disjoint:
		r.histograms.addBuckets(name, h.IntervalStatistics().SupportedBuckets(),
			h.IntervalStatistics().ComputeDisjointBuckets(), h.CumulativeStatistics().ComputeDisjointBuckets())
	default:
		r.histograms.addQuantiles(name, h)
	}
}

// Finalize writes the buffered histograms, if any, and closes the document.
// Histograms generated after Finalize are a contract violation.
func (r *JSONRenderer) Finalize(out Sink) {
	if r.histograms.count() == 0 {
		r.histograms.state = accumulatorFlushed
	} else {
		block, err := r.histograms.flush(r.mode)
		if err != nil {
			// Scalars are already on the wire; dropping the block keeps the
			// document well formed.
			r.logger.Warn("dropping histograms from stats response",
				"histograms", r.histograms.count(),
				"error", err,
			)
			r.dropped = r.histograms.count()
		} else {
			out.WriteString(r.delim)
			out.Write(block)
		}
	}
	out.WriteString("]}")
}

// Dropped returns how many histograms Finalize left out of the document
// because their block could not be encoded.
func (r *JSONRenderer) Dropped() int { return r.dropped }

// jsonString returns s as a quoted, escaped JSON string.
func jsonString(s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		return []byte(`""`)
	}
	return b
}

type accumulatorState int

const (
	accumulatorEmpty accumulatorState = iota
	accumulatorAccumulating
	accumulatorFlushed
)

// histogramAccumulator owns the histogram summaries of one JSON response.
// It moves from empty to accumulating on the first histogram and to flushed
// at Finalize; adding after the flush is a contract violation.
type histogramAccumulator struct {
	state   accumulatorState
	arena   fastjson.Arena
	entries []histogramEntry

	// supportedQuantiles is set by the first histogram in NoBuckets mode.
	supportedQuantiles *fastjson.Value
}

// histogramEntry is one {"name":...,<field>:<body>} element. Names are
// escaped with jsonString at flush so they read the same as scalar names.
type histogramEntry struct {
	name  string
	field string
	body  *fastjson.Value
}

func (a *histogramAccumulator) count() int { return len(a.entries) }

func (a *histogramAccumulator) begin(name string) {
	if a.state == accumulatorFlushed {
		panic(&ContractViolation{Stat: name, What: "histogram generated after Finalize"})
	}
	a.state = accumulatorAccumulating
}

// addQuantiles appends {"name":...,"values":[{"interval":q,"cumulative":q},...]}.
func (a *histogramAccumulator) addQuantiles(name string, h stats.ParentHistogram) {
	a.begin(name)
	interval := h.IntervalStatistics()
	supported := interval.SupportedQuantiles()

	if a.supportedQuantiles == nil {
		arr := a.arena.NewArray()
		for i, q := range supported {
			arr.SetArrayItem(i, numberValue(&a.arena, stats.QuantilePercent(q)))
		}
		a.supportedQuantiles = arr
	}

	iv := interval.ComputedQuantiles()
	cv := h.CumulativeStatistics().ComputedQuantiles()
	mustSameLength(name, "quantile", len(iv), len(cv), len(supported))

	values := a.arena.NewArray()
	for i := range iv {
		v := a.arena.NewObject()
		v.Set("interval", quantileValue(&a.arena, iv[i]))
		v.Set("cumulative", quantileValue(&a.arena, cv[i]))
		values.SetArrayItem(i, v)
	}

	a.entries = append(a.entries, histogramEntry{name: name, field: "values", body: values})
}

// addBuckets appends {"name":...,"buckets":[{"upper_bound":b,"interval":n,"cumulative":n},...]}.
func (a *histogramAccumulator) addBuckets(name string, bounds []float64, interval, cumulative []uint64) {
	a.begin(name)
	mustSameLength(name, "bucket", len(bounds), len(interval), len(cumulative))

	buckets := a.arena.NewArray()
	for i, bound := range bounds {
		b := a.arena.NewObject()
		b.Set("upper_bound", numberValue(&a.arena, bound))
		b.Set("interval", a.arena.NewNumberString(strconv.FormatUint(interval[i], 10)))
		b.Set("cumulative", a.arena.NewNumberString(strconv.FormatUint(cumulative[i], 10)))
		buckets.SetArrayItem(i, b)
	}

	a.entries = append(a.entries, histogramEntry{name: name, field: "buckets", body: buckets})
}

// flush assembles and encodes the histograms element. A name that is not
// valid UTF-8 or an encoding that is not valid JSON is reported as an error,
// and the block must not be written.
func (a *histogramAccumulator) flush(mode BucketMode) ([]byte, error) {
	a.state = accumulatorFlushed

	var list []byte
	list = append(list, '[')
	for i, e := range a.entries {
		if !utf8.ValidString(e.name) {
			return nil, fmt.Errorf("histogram name %q is not valid UTF-8", e.name)
		}
		if i > 0 {
			list = append(list, ',')
		}
		list = append(list, `{"name":`...)
		list = append(list, jsonString(e.name)...)
		list = append(list, `,"`...)
		list = append(list, e.field...)
		list = append(list, `":`...)
		list = e.body.MarshalTo(list)
		list = append(list, '}')
	}
	list = append(list, ']')

	block := []byte(`{"histograms":`)
	if mode == NoBuckets {
		block = append(block, `{"computed_quantiles":`...)
		block = append(block, list...)
		if a.supportedQuantiles != nil {
			block = append(block, `,"supported_quantiles":`...)
			block = a.supportedQuantiles.MarshalTo(block)
		}
		block = append(block, '}')
	} else {
		block = append(block, list...)
	}
	block = append(block, '}')

	if err := fastjson.ValidateBytes(block); err != nil {
		return nil, err
	}
	return block, nil
}

// quantileValue maps NaN, a window without samples, to null.
func quantileValue(a *fastjson.Arena, v float64) *fastjson.Value {
	if math.IsNaN(v) {
		return a.NewNull()
	}
	return numberValue(a, v)
}

// numberValue prints integral values without an exponent.
func numberValue(a *fastjson.Arena, v float64) *fastjson.Value {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return a.NewNumberString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return a.NewNumberFloat64(v)
}
