package tracing

import (
	"strings"
	"testing"
)

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
		wantDesc string
	}{
		{"always", SamplerAlways, 0, false, "AlwaysOnSampler"},
		{"never", SamplerNever, 0, false, "AlwaysOffSampler"},
		{"ratio", SamplerRatio, 0.25, false, "TraceIDRatioBased{0.25}"},
		{"ratio above one", SamplerRatio, 1.5, true, ""},
		{"negative ratio", SamplerRatio, -0.1, true, ""},
		{"unknown", "sometimes", 0, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			desc := sampler.Description()
			if !strings.HasPrefix(desc, "ParentBased{root:"+tt.wantDesc) {
				t.Errorf("Description() = %q, want ParentBased root %s", desc, tt.wantDesc)
			}
		})
	}
}
