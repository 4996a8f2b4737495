package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statsrender.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
admin:
  listen_address: "0.0.0.0:9902"
  read_timeout: "60s"

stats:
  flush_schedule: "@every 10s"
  histogram_buckets: [1, 10, 100]
  custom_namespaces: ["wasm", "lua"]
  prometheus_prefix: "edge_"
  default_bucket_mode: "disjoint"
  tag_rules:
    - name: cluster_name
      regex: '^cluster\.((.+?)\.)'
  runtime:
    disabled: true

telemetry:
  logging:
    level: "debug"
    format: "text"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Admin.ListenAddress != "0.0.0.0:9902" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9902", cfg.Admin.ListenAddress)
	}
	if cfg.Admin.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout %v, got %v", 60*time.Second, cfg.Admin.ReadTimeout)
	}
	if cfg.Admin.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout %v, got %v", DefaultWriteTimeout, cfg.Admin.WriteTimeout)
	}
	if !slices.Equal(cfg.Stats.HistogramBuckets, []float64{1, 10, 100}) {
		t.Errorf("expected buckets [1 10 100], got %v", cfg.Stats.HistogramBuckets)
	}
	if !slices.Equal(cfg.Stats.CustomNamespaces, []string{"wasm", "lua"}) {
		t.Errorf("expected namespaces [wasm lua], got %v", cfg.Stats.CustomNamespaces)
	}
	if cfg.Stats.PrometheusPrefix != "edge_" {
		t.Errorf("expected prefix %q, got %q", "edge_", cfg.Stats.PrometheusPrefix)
	}
	if cfg.Stats.DefaultBucketMode != "disjoint" {
		t.Errorf("expected bucket mode %q, got %q", "disjoint", cfg.Stats.DefaultBucketMode)
	}
	if len(cfg.Stats.TagRules) != 1 || cfg.Stats.TagRules[0].Name != "cluster_name" {
		t.Errorf("expected one cluster_name tag rule, got %+v", cfg.Stats.TagRules)
	}
	if !cfg.Stats.Runtime.Disabled {
		t.Error("expected runtime bridge to be disabled")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("failed to load empty config: %v", err)
	}
	if cfg.Admin.ListenAddress != DefaultListenAddress {
		t.Errorf("expected default listen address %q, got %q", DefaultListenAddress, cfg.Admin.ListenAddress)
	}
	if cfg.Stats.FlushSchedule != DefaultFlushSchedule {
		t.Errorf("expected default flush schedule %q, got %q", DefaultFlushSchedule, cfg.Stats.FlushSchedule)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_UnknownField(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "stats:\n  bucket_mode: cumulative\n"))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
	if !strings.Contains(err.Error(), "bucket_mode") {
		t.Errorf("expected error to name the unknown field, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "admin: [unclosed"))
	if err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "stats:\n  default_bucket_mode: detailed\n"))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Errors[0].Field != "stats.default_bucket_mode" {
		t.Errorf("expected field stats.default_bucket_mode, got %s", verr.Errors[0].Field)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"STATSRENDER_ADMIN_LISTEN_ADDRESS":           "0.0.0.0:19901",
		"STATSRENDER_ADMIN_READ_TIMEOUT":             "3s",
		"STATSRENDER_STATS_DEFAULT_BUCKET_MODE":      "cumulative",
		"STATSRENDER_STATS_CUSTOM_NAMESPACES":        "wasm, lua,,",
		"STATSRENDER_STATS_HISTOGRAM_BUCKETS":        "1,2.5,10",
		"STATSRENDER_STATS_RUNTIME_DISABLED":         "true",
		"STATSRENDER_TELEMETRY_LOGGING_LEVEL":        "warn",
		"STATSRENDER_TELEMETRY_TRACING_SAMPLE_RATIO": "0.5",
		"STATSRENDER_ADMIN_WRITE_TIMEOUT":            "not-a-duration",
	}

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg, func(key string) string { return env[key] })

	if cfg.Admin.ListenAddress != "0.0.0.0:19901" {
		t.Errorf("expected listen address override, got %q", cfg.Admin.ListenAddress)
	}
	if cfg.Admin.ReadTimeout != 3*time.Second {
		t.Errorf("expected read timeout 3s, got %v", cfg.Admin.ReadTimeout)
	}
	if cfg.Admin.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected unparsable override to be ignored, got %v", cfg.Admin.WriteTimeout)
	}
	if cfg.Stats.DefaultBucketMode != "cumulative" {
		t.Errorf("expected bucket mode cumulative, got %q", cfg.Stats.DefaultBucketMode)
	}
	if !slices.Equal(cfg.Stats.CustomNamespaces, []string{"wasm", "lua"}) {
		t.Errorf("expected namespaces [wasm lua], got %v", cfg.Stats.CustomNamespaces)
	}
	if !slices.Equal(cfg.Stats.HistogramBuckets, []float64{1, 2.5, 10}) {
		t.Errorf("expected buckets [1 2.5 10], got %v", cfg.Stats.HistogramBuckets)
	}
	if !cfg.Stats.Runtime.Disabled {
		t.Error("expected runtime bridge to be disabled")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected logging level warn, got %q", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.5 {
		t.Errorf("expected sample ratio 0.5, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "stats:\n  prometheus_prefix: file_\n")
	t.Setenv("STATSRENDER_STATS_PROMETHEUS_PREFIX", "env_")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Stats.PrometheusPrefix != "env_" {
		t.Errorf("expected env to take precedence, got %q", cfg.Stats.PrometheusPrefix)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("STATSRENDER_STATS_DEFAULT_BUCKET_MODE", "sideways")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Fatal("expected validation error after env override, got nil")
	}
}

func TestDefaultsWithEnvOverrides(t *testing.T) {
	t.Setenv("STATSRENDER_ADMIN_LISTEN_ADDRESS", "0.0.0.0:9902")

	cfg, err := DefaultsWithEnvOverrides()
	if err != nil {
		t.Fatalf("DefaultsWithEnvOverrides() error = %v", err)
	}
	if cfg.Admin.ListenAddress != "0.0.0.0:9902" {
		t.Errorf("ListenAddress = %q, want override", cfg.Admin.ListenAddress)
	}
	if cfg.Stats.PrometheusPrefix != DefaultPrometheusPrefix {
		t.Errorf("PrometheusPrefix = %q, want default", cfg.Stats.PrometheusPrefix)
	}
}
