package config

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(NewDefaultConfig()); err != nil {
		t.Errorf("expected default configuration to be valid, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{
			name:   "listen address without port",
			modify: func(c *Config) { c.Admin.ListenAddress = "localhost" },
			field:  "admin.listen_address",
		},
		{
			name:   "listen address with bad port",
			modify: func(c *Config) { c.Admin.ListenAddress = "localhost:99999" },
			field:  "admin.listen_address",
		},
		{
			name:   "negative write timeout",
			modify: func(c *Config) { c.Admin.WriteTimeout = -1 },
			field:  "admin.write_timeout",
		},
		{
			name: "tls without cert",
			modify: func(c *Config) {
				c.Admin.TLS = TLSConfig{Enabled: true, KeyFile: "k.pem", MinVersion: "1.3", ReloadInterval: 1}
			},
			field: "admin.tls.cert_file",
		},
		{
			name: "tls 1.1",
			modify: func(c *Config) {
				c.Admin.TLS = TLSConfig{Enabled: true, CertFile: "c.pem", KeyFile: "k.pem", MinVersion: "1.1", ReloadInterval: 1}
			},
			field: "admin.tls.min_version",
		},
		{
			name:   "invalid flush schedule",
			modify: func(c *Config) { c.Stats.FlushSchedule = "every now and then" },
			field:  "stats.flush_schedule",
		},
		{
			name:   "decreasing buckets",
			modify: func(c *Config) { c.Stats.HistogramBuckets = []float64{1, 10, 5} },
			field:  "stats.histogram_buckets[2]",
		},
		{
			name:   "duplicate bucket",
			modify: func(c *Config) { c.Stats.HistogramBuckets = []float64{1, 1} },
			field:  "stats.histogram_buckets[1]",
		},
		{
			name:   "infinite bucket",
			modify: func(c *Config) { c.Stats.HistogramBuckets = []float64{1, math.Inf(1)} },
			field:  "stats.histogram_buckets[1]",
		},
		{
			name:   "namespace with dot",
			modify: func(c *Config) { c.Stats.CustomNamespaces = []string{"wasm.filters"} },
			field:  "stats.custom_namespaces[0]",
		},
		{
			name:   "prefix starting with digit",
			modify: func(c *Config) { c.Stats.PrometheusPrefix = "9lives_" },
			field:  "stats.prometheus_prefix",
		},
		{
			name:   "prefix with dash",
			modify: func(c *Config) { c.Stats.PrometheusPrefix = "my-prefix_" },
			field:  "stats.prometheus_prefix",
		},
		{
			name:   "unknown bucket mode",
			modify: func(c *Config) { c.Stats.DefaultBucketMode = "detailed" },
			field:  "stats.default_bucket_mode",
		},
		{
			name: "tag rule without capture group",
			modify: func(c *Config) {
				c.Stats.TagRules = []TagRuleConfig{{Name: "cluster_name", Regex: `^cluster\.`}}
			},
			field: "stats.tag_rules[0]",
		},
		{
			name: "tag rule without name",
			modify: func(c *Config) {
				c.Stats.TagRules = []TagRuleConfig{{Regex: `^cluster\.((.+?)\.)`}}
			},
			field: "stats.tag_rules[0]",
		},
		{
			name:   "invalid log level",
			modify: func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			field:  "telemetry.logging.level",
		},
		{
			name:   "invalid log format",
			modify: func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			field:  "telemetry.logging.format",
		},
		{
			name:   "relative metrics path",
			modify: func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			field:  "telemetry.metrics.path",
		},
		{
			name:   "tracing without endpoint",
			modify: func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			field:  "telemetry.tracing.endpoint",
		},
		{
			name:   "sample ratio above one",
			modify: func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 },
			field:  "telemetry.tracing.sample_ratio",
		},
		{
			name:   "relative readiness path",
			modify: func(c *Config) { c.Telemetry.Health.ReadinessPath = "ready" },
			field:  "telemetry.health.readiness_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if len(verr.Errors) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(verr.Errors), verr)
			}
			if verr.Errors[0].Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Errors[0].Field)
			}
		})
	}
}

func TestValidate_MetricsPathIgnoredWhenDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Telemetry.Metrics.Disabled = true
	cfg.Telemetry.Metrics.Path = "metrics"

	if err := Validate(cfg); err != nil {
		t.Errorf("expected no error with metrics disabled, got %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("unexpected single error message: %q", got)
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	got := multi.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse\n") {
		t.Errorf("unexpected multi error message: %q", got)
	}

	if got := (ValidationError{}).Error(); got != "configuration validation failed" {
		t.Errorf("unexpected empty error message: %q", got)
	}
}
