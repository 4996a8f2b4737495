package admin

import (
	"cmp"
	"context"
	"slices"

	"mercator-hq/statsrender/pkg/render"
	"mercator-hq/statsrender/pkg/stats"
)

// Result summarizes one render.
type Result struct {
	// Stats is the number of stats handed to the renderer.
	Stats int

	// HistogramsDropped is the number of histograms the JSON renderer left
	// out because they could not be encoded.
	HistogramsDropped int
}

// statSet is the filtered stat set of one request, each kind sorted by name.
type statSet struct {
	counters     []*stats.Counter
	gauges       []*stats.Gauge
	textReadouts []*stats.TextReadout
	histograms   []stats.ParentHistogram
}

// Render writes every stat selected by p to out in p.Format. Each stat is
// visited exactly once and the renderer is finalized once.
//
// Render panics with a *render.ContractViolation when a histogram reports
// statistic vectors of different lengths.
func (h *Handler) Render(ctx context.Context, p Params, out render.Sink) Result {
	set := h.collect(ctx, p)

	if p.Format == render.FormatPrometheus {
		return h.renderPrometheus(p, set, out)
	}

	r, err := render.New(p.Format, p.BucketMode, out)
	if err != nil {
		// ParseParams only yields known formats.
		panic(err)
	}
	res := renderStream(r, set, out)
	if jr, ok := r.(*render.JSONRenderer); ok {
		res.HistogramsDropped = jr.Dropped()
	}
	return res
}

// collect gathers the stats of the store and of the runtime bridge that pass
// the request filters.
func (h *Handler) collect(ctx context.Context, p Params) statSet {
	var set statSet
	if p.includes(TypeCounters) {
		set.counters = filter(p, h.store.Counters())
	}
	if p.includes(TypeGauges) {
		set.gauges = filter(p, h.store.Gauges())
	}
	if p.includes(TypeTextReadouts) {
		set.textReadouts = filter(p, h.store.TextReadouts())
	}
	if p.includes(TypeHistograms) {
		for _, hist := range h.store.Histograms() {
			if p.keep(hist) {
				set.histograms = append(set.histograms, hist)
			}
		}
	}

	if h.runtime == nil {
		return set
	}
	snap, err := h.runtime.Snapshot()
	if err != nil {
		h.logger.WarnContext(ctx, "runtime stats unavailable", "error", err)
		return set
	}
	if p.includes(TypeCounters) {
		set.counters = mergeSorted(set.counters, filter(p, snap.Counters))
	}
	if p.includes(TypeGauges) {
		set.gauges = mergeSorted(set.gauges, filter(p, snap.Gauges))
	}
	if p.includes(TypeHistograms) {
		set.histograms = mergeSorted(set.histograms, filter(p, snap.Histograms))
	}
	return set
}

func filter[T stats.Metric](p Params, in []T) []T {
	out := make([]T, 0, len(in))
	for _, m := range in {
		if p.keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func byName[T stats.Metric](a, b T) int { return cmp.Compare(a.Name(), b.Name()) }

func mergeSorted[T stats.Metric](a, b []T) []T {
	if len(b) == 0 {
		return a
	}
	out := append(a, b...)
	slices.SortStableFunc(out, byName[T])
	return out
}

// renderStream feeds a per-stat renderer: text readouts, then counters and
// gauges interleaved by name, then histograms.
func renderStream(r render.Renderer, set statSet, out render.Sink) Result {
	var res Result
	for _, t := range set.textReadouts {
		r.GenerateString(out, t.Name(), t.Value())
		res.Stats++
	}

	i, j := 0, 0
	for i < len(set.counters) || j < len(set.gauges) {
		if j == len(set.gauges) || (i < len(set.counters) && set.counters[i].Name() <= set.gauges[j].Name()) {
			r.GenerateValue(out, set.counters[i].Name(), set.counters[i].Value())
			i++
		} else {
			r.GenerateValue(out, set.gauges[j].Name(), set.gauges[j].Value())
			j++
		}
		res.Stats++
	}

	for _, hist := range set.histograms {
		r.GenerateHistogram(out, hist.Name(), hist)
		res.Stats++
	}

	r.Finalize(out)
	return res
}

// family is the stats sharing one tag-extracted name.
type family[T stats.Metric] struct {
	extracted string
	members   []T
}

// families groups ms by tag-extracted name. Families are sorted by that name
// and keep the order of ms inside each family.
func families[T stats.Metric](ms []T) []family[T] {
	index := make(map[string]int)
	var out []family[T]
	for _, m := range ms {
		key := m.TagExtractedName()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, family[T]{extracted: key})
		}
		out[i].members = append(out[i].members, m)
	}
	slices.SortFunc(out, func(a, b family[T]) int { return cmp.Compare(a.extracted, b.extracted) })
	return out
}

// emit hands every family with a valid exported name to gen.
func emit[T stats.Metric](r *render.PrometheusRenderer, ms []T, gen func(name string, members []T)) int {
	n := 0
	for _, f := range families(ms) {
		name, ok := r.MetricName(f.extracted)
		if !ok {
			continue
		}
		gen(name, f.members)
		n += len(f.members)
	}
	return n
}

func (h *Handler) renderPrometheus(p Params, set statSet, out render.Sink) Result {
	r := render.NewPrometheus(h.prefix, h.namespaces)

	var res Result
	res.Stats += emit(r, set.counters, func(name string, m []*stats.Counter) {
		r.GenerateCounters(out, name, m)
	})
	res.Stats += emit(r, set.gauges, func(name string, m []*stats.Gauge) {
		r.GenerateGauges(out, name, m)
	})
	if p.TextReadouts {
		res.Stats += emit(r, set.textReadouts, func(name string, m []*stats.TextReadout) {
			r.GenerateTextReadouts(out, name, m)
		})
	}
	res.Stats += emit(r, set.histograms, func(name string, m []stats.ParentHistogram) {
		r.GenerateHistograms(out, name, m)
	})
	r.Finalize(out)
	return res
}
