package render

import (
	"fmt"
	"io"
	"strings"

	"mercator-hq/statsrender/pkg/stats"
)

// BucketMode selects how histograms are rendered.
type BucketMode int

const (
	// NoBuckets renders the quantile summary only.
	NoBuckets BucketMode = iota
	// Cumulative renders lifetime bucket counts.
	Cumulative
	// Disjoint renders per-bucket counts.
	Disjoint
)

// String returns the query parameter spelling of the mode.
func (m BucketMode) String() string {
	switch m {
	case NoBuckets:
		return "none"
	case Cumulative:
		return "cumulative"
	case Disjoint:
		return "disjoint"
	default:
		return fmt.Sprintf("BucketMode(%d)", int(m))
	}
}

// ParseBucketMode parses "none", "cumulative" or "disjoint". The empty string
// selects NoBuckets.
func ParseBucketMode(s string) (BucketMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return NoBuckets, nil
	case "cumulative":
		return Cumulative, nil
	case "disjoint":
		return Disjoint, nil
	default:
		return NoBuckets, fmt.Errorf("unknown histogram bucket mode %q", s)
	}
}

// Format is an output wire format.
type Format string

const (
	FormatText       Format = "text"
	FormatJSON       Format = "json"
	FormatPrometheus Format = "prometheus"
)

// ParseFormat parses a format name. The empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "prometheus":
		return FormatPrometheus, nil
	default:
		return "", fmt.Errorf("unknown stats format %q", s)
	}
}

// ContentType returns the HTTP content type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPrometheus:
		return "text/plain; version=0.0.4; charset=UTF-8"
	default:
		return "text/plain; charset=UTF-8"
	}
}

// Sink is an append-only destination for rendered output. Renderers only
// write to it. *bytes.Buffer and *strings.Builder satisfy it.
type Sink interface {
	io.Writer
	io.StringWriter
}

// Renderer is the per-stat contract shared by the text and JSON formats.
//
// The Prometheus format does not implement it. Exposition text groups every
// series of a tag-extracted name under one TYPE line, so PrometheusRenderer
// takes whole families (GenerateCounters, GenerateGauges, GenerateTextReadouts,
// GenerateHistograms) and shares only Finalize with this interface.
type Renderer interface {
	// GenerateValue renders a counter or gauge.
	GenerateValue(out Sink, name string, value uint64)

	// GenerateString renders a text readout.
	GenerateString(out Sink, name, value string)

	// GenerateHistogram renders a histogram according to the bucket mode.
	GenerateHistogram(out Sink, name string, h stats.ParentHistogram)

	// Finalize flushes deferred output and closes the document. It must be
	// called exactly once, after the last Generate call.
	Finalize(out Sink)
}

// New returns the streaming renderer for format. The JSON renderer writes its
// document preamble to out immediately. FormatPrometheus is family based and
// is constructed with NewPrometheus instead.
func New(format Format, mode BucketMode, out Sink) (Renderer, error) {
	switch format {
	case FormatText:
		return NewText(mode), nil
	case FormatJSON:
		return NewJSON(out, mode), nil
	default:
		return nil, fmt.Errorf("format %q has no per-stat renderer", format)
	}
}

// ContractViolation reports statistic vectors whose lengths disagree. It is
// raised with panic because it can only come from a bug in the statistics
// layer.
type ContractViolation struct {
	Stat    string
	What    string
	Lengths []int
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("stats contract violation for %q: %s lengths differ %v", e.Stat, e.What, e.Lengths)
}

// mustSameLength panics with a ContractViolation unless all lengths are equal.
func mustSameLength(stat, what string, lengths ...int) {
	for _, n := range lengths[1:] {
		if n != lengths[0] {
			panic(&ContractViolation{Stat: stat, What: what, Lengths: lengths})
		}
	}
}
