package admin

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"mercator-hq/statsrender/pkg/render"
	"mercator-hq/statsrender/pkg/stats"
)

// Query parameter names understood by the stats endpoints.
const (
	ParamFormat           = "format"
	ParamUsedOnly         = "usedonly"
	ParamFilter           = "filter"
	ParamHistogramBuckets = "histogram_buckets"
	ParamType             = "type"
	ParamTextReadouts     = "text_readouts"
)

// StatType restricts a request to one kind of stat.
type StatType int

const (
	TypeAll StatType = iota
	TypeCounters
	TypeGauges
	TypeHistograms
	TypeTextReadouts
)

var statTypeNames = []string{"All", "Counters", "Gauges", "Histograms", "TextReadouts"}

func (t StatType) String() string {
	if int(t) < len(statTypeNames) {
		return statTypeNames[t]
	}
	return fmt.Sprintf("StatType(%d)", int(t))
}

// ParseStatType parses a type parameter value, ignoring case. The empty
// string selects TypeAll.
func ParseStatType(s string) (StatType, error) {
	if s == "" {
		return TypeAll, nil
	}
	for i, name := range statTypeNames {
		if strings.EqualFold(s, name) {
			return StatType(i), nil
		}
	}
	return TypeAll, fmt.Errorf("unknown stat type %q", s)
}

// Params are the options of one stats request.
type Params struct {
	Format     render.Format
	UsedOnly   bool
	Filter     *regexp.Regexp
	BucketMode render.BucketMode
	Type       StatType

	// TextReadouts adds text readouts to Prometheus output as gauges.
	TextReadouts bool
}

// ParamError is a query parameter that could not be parsed. Handlers answer
// it with 400 Bad Request.
type ParamError struct {
	Param string
	Value string
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s parameter %q: %v", e.Param, e.Value, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// ParseParams reads the stats parameters from q. Unknown parameters are
// ignored. usedonly and text_readouts are flags: their presence enables
// them whatever their value.
func ParseParams(q url.Values, defaultMode render.BucketMode) (Params, error) {
	p := Params{BucketMode: defaultMode}

	var err error
	if p.Format, err = render.ParseFormat(q.Get(ParamFormat)); err != nil {
		return Params{}, &ParamError{Param: ParamFormat, Value: q.Get(ParamFormat), Err: err}
	}

	if q.Has(ParamHistogramBuckets) {
		if p.BucketMode, err = render.ParseBucketMode(q.Get(ParamHistogramBuckets)); err != nil {
			return Params{}, &ParamError{Param: ParamHistogramBuckets, Value: q.Get(ParamHistogramBuckets), Err: err}
		}
	}

	if p.Type, err = ParseStatType(q.Get(ParamType)); err != nil {
		return Params{}, &ParamError{Param: ParamType, Value: q.Get(ParamType), Err: err}
	}

	if expr := q.Get(ParamFilter); expr != "" {
		if p.Filter, err = regexp.Compile(expr); err != nil {
			return Params{}, &ParamError{Param: ParamFilter, Value: expr, Err: err}
		}
	}

	p.UsedOnly = q.Has(ParamUsedOnly)
	p.TextReadouts = q.Has(ParamTextReadouts)
	return p, nil
}

// includes reports whether stats of kind t are requested.
func (p Params) includes(t StatType) bool {
	return p.Type == TypeAll || p.Type == t
}

// keep reports whether m passes the usedonly and filter options.
func (p Params) keep(m stats.Metric) bool {
	if p.UsedOnly && !m.Used() {
		return false
	}
	return p.Filter == nil || p.Filter.MatchString(m.Name())
}

func (p Params) filterString() string {
	if p.Filter == nil {
		return ""
	}
	return p.Filter.String()
}
