package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "STATSRENDER_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML and applies defaults. Unknown fields are rejected. The
// result is not validated.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention STATSRENDER_SECTION_FIELD (e.g., STATSRENDER_ADMIN_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg, os.Getenv)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// DefaultsWithEnvOverrides returns the default configuration with
// environment variable overrides applied, for running without a file.
func DefaultsWithEnvOverrides() (*Config, error) {
	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg, os.Getenv)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Unparsable values are ignored.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	str := func(key string, dst *string) {
		if val := getenv(EnvPrefix + key); val != "" {
			*dst = val
		}
	}
	dur := func(key string, dst *time.Duration) {
		if val := getenv(EnvPrefix + key); val != "" {
			if d, err := time.ParseDuration(val); err == nil {
				*dst = d
			}
		}
	}
	boolean := func(key string, dst *bool) {
		if val := getenv(EnvPrefix + key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				*dst = b
			}
		}
	}
	list := func(key string, dst *[]string) {
		if val := getenv(EnvPrefix + key); val != "" {
			*dst = splitList(val)
		}
	}

	// Admin overrides
	str("ADMIN_LISTEN_ADDRESS", &cfg.Admin.ListenAddress)
	dur("ADMIN_READ_TIMEOUT", &cfg.Admin.ReadTimeout)
	dur("ADMIN_WRITE_TIMEOUT", &cfg.Admin.WriteTimeout)
	dur("ADMIN_IDLE_TIMEOUT", &cfg.Admin.IdleTimeout)
	dur("ADMIN_SHUTDOWN_TIMEOUT", &cfg.Admin.ShutdownTimeout)
	boolean("ADMIN_TLS_ENABLED", &cfg.Admin.TLS.Enabled)
	str("ADMIN_TLS_CERT_FILE", &cfg.Admin.TLS.CertFile)
	str("ADMIN_TLS_KEY_FILE", &cfg.Admin.TLS.KeyFile)

	// Stats overrides
	str("STATS_FLUSH_SCHEDULE", &cfg.Stats.FlushSchedule)
	str("STATS_PROMETHEUS_PREFIX", &cfg.Stats.PrometheusPrefix)
	str("STATS_DEFAULT_BUCKET_MODE", &cfg.Stats.DefaultBucketMode)
	list("STATS_CUSTOM_NAMESPACES", &cfg.Stats.CustomNamespaces)
	boolean("STATS_RUNTIME_DISABLED", &cfg.Stats.Runtime.Disabled)
	str("STATS_RUNTIME_PREFIX", &cfg.Stats.Runtime.Prefix)
	if val := getenv(EnvPrefix + "STATS_HISTOGRAM_BUCKETS"); val != "" {
		if buckets, err := parseFloats(val); err == nil {
			cfg.Stats.HistogramBuckets = buckets
		}
	}

	// Telemetry overrides
	str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	boolean("TELEMETRY_METRICS_DISABLED", &cfg.Telemetry.Metrics.Disabled)
	str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	if val := getenv(EnvPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
