package admin

import (
	"errors"
	"net/url"
	"testing"

	"mercator-hq/statsrender/pkg/render"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		defaultMode render.BucketMode
		want        Params
		wantFilter  string
		wantErr     string
	}{
		{
			name:  "defaults",
			query: "",
			want:  Params{Format: render.FormatText, BucketMode: render.NoBuckets},
		},
		{
			name:        "configured default mode",
			query:       "format=json",
			defaultMode: render.Disjoint,
			want:        Params{Format: render.FormatJSON, BucketMode: render.Disjoint},
		},
		{
			name:        "explicit none overrides default",
			query:       "histogram_buckets=none",
			defaultMode: render.Cumulative,
			want:        Params{Format: render.FormatText, BucketMode: render.NoBuckets},
		},
		{
			name:  "flags",
			query: "usedonly&text_readouts=false&format=prometheus",
			want:  Params{Format: render.FormatPrometheus, UsedOnly: true, TextReadouts: true},
		},
		{
			name:       "filter and type",
			query:      "filter=%5Ecluster%5C.&type=counters",
			want:       Params{Format: render.FormatText, Type: TypeCounters},
			wantFilter: `^cluster\.`,
		},
		{
			name:  "unknown parameters ignored",
			query: "pretty=1&histogram_buckets=cumulative",
			want:  Params{Format: render.FormatText, BucketMode: render.Cumulative},
		},
		{name: "bad format", query: "format=html", wantErr: ParamFormat},
		{name: "bad bucket mode", query: "histogram_buckets=detailed", wantErr: ParamHistogramBuckets},
		{name: "bad type", query: "type=Timers", wantErr: ParamType},
		{name: "bad filter", query: "filter=%28", wantErr: ParamFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery(%q) error = %v", tt.query, err)
			}

			got, err := ParseParams(q, tt.defaultMode)
			if tt.wantErr != "" {
				var perr *ParamError
				if !errors.As(err, &perr) {
					t.Fatalf("ParseParams() error = %v, want *ParamError", err)
				}
				if perr.Param != tt.wantErr {
					t.Errorf("ParamError.Param = %q, want %q", perr.Param, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseParams() error = %v", err)
			}

			if got.filterString() != tt.wantFilter {
				t.Errorf("Filter = %q, want %q", got.filterString(), tt.wantFilter)
			}
			got.Filter = nil
			if got != tt.want {
				t.Errorf("ParseParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseStatType(t *testing.T) {
	for _, typ := range []StatType{TypeAll, TypeCounters, TypeGauges, TypeHistograms, TypeTextReadouts} {
		got, err := ParseStatType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseStatType(%q) = %v, %v; want %v", typ.String(), got, err, typ)
		}
	}

	if got, err := ParseStatType("textreadouts"); err != nil || got != TypeTextReadouts {
		t.Errorf("ParseStatType(textreadouts) = %v, %v; want TextReadouts", got, err)
	}
	if _, err := ParseStatType("Timers"); err == nil {
		t.Error("ParseStatType(Timers) error = nil, want error")
	}
}

func TestParamErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ParamError{Param: ParamFilter, Value: "(", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is(ParamError, inner) = false, want true")
	}
	want := `invalid filter parameter "(": boom`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
