package config

import (
	"slices"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Admin.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Admin.ListenAddress)
	}
	if cfg.Admin.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("expected shutdown timeout %v, got %v", DefaultShutdownTimeout, cfg.Admin.ShutdownTimeout)
	}
	if !slices.Equal(cfg.Stats.HistogramBuckets, DefaultHistogramBuckets) {
		t.Errorf("expected default buckets, got %v", cfg.Stats.HistogramBuckets)
	}
	if cfg.Stats.PrometheusPrefix != DefaultPrometheusPrefix {
		t.Errorf("expected prefix %q, got %q", DefaultPrometheusPrefix, cfg.Stats.PrometheusPrefix)
	}
	if cfg.Stats.DefaultBucketMode != DefaultBucketMode {
		t.Errorf("expected bucket mode %q, got %q", DefaultBucketMode, cfg.Stats.DefaultBucketMode)
	}
	if cfg.Stats.Runtime.Disabled {
		t.Error("expected runtime bridge enabled by default")
	}
	if cfg.Telemetry.Metrics.Disabled {
		t.Error("expected self metrics enabled by default")
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("expected tracing disabled by default")
	}
	if cfg.Telemetry.Health.ReadinessPath != DefaultReadinessPath {
		t.Errorf("expected readiness path %q, got %q", DefaultReadinessPath, cfg.Telemetry.Health.ReadinessPath)
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{}
	cfg.Admin.ListenAddress = "0.0.0.0:1"
	cfg.Stats.HistogramBuckets = []float64{2, 4}
	cfg.Telemetry.Logging.Level = "error"

	ApplyDefaults(cfg)
	ApplyDefaults(cfg)

	if cfg.Admin.ListenAddress != "0.0.0.0:1" {
		t.Errorf("expected listen address to be preserved, got %q", cfg.Admin.ListenAddress)
	}
	if !slices.Equal(cfg.Stats.HistogramBuckets, []float64{2, 4}) {
		t.Errorf("expected buckets to be preserved, got %v", cfg.Stats.HistogramBuckets)
	}
	if cfg.Telemetry.Logging.Level != "error" {
		t.Errorf("expected logging level to be preserved, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestApplyDefaults_BucketsNotShared(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Stats.HistogramBuckets[0] = -1

	if DefaultHistogramBuckets[0] == -1 {
		t.Error("expected default buckets to be copied, not shared")
	}
}
