package config

import (
	"fmt"
	"math"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"mercator-hq/statsrender/pkg/render"
	"mercator-hq/statsrender/pkg/stats"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "admin.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateAdmin(&cfg.Admin)...)
	errs = append(errs, validateStats(&cfg.Stats)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validName matches a namespace token or metric name fragment.
var validName = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func validateAdmin(cfg *AdminConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "admin.listen_address",
			Message: "listen address is required",
		})
	} else if _, port, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "admin.listen_address",
			Message: fmt.Sprintf("listen address must be host:port: %v", err),
		})
	} else if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
		errs = append(errs, FieldError{
			Field:   "admin.listen_address",
			Message: fmt.Sprintf("invalid port %q", port),
		})
	}

	timeouts := []struct {
		field string
		value int64
	}{
		{"admin.read_timeout", int64(cfg.ReadTimeout)},
		{"admin.write_timeout", int64(cfg.WriteTimeout)},
		{"admin.idle_timeout", int64(cfg.IdleTimeout)},
		{"admin.shutdown_timeout", int64(cfg.ShutdownTimeout)},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			errs = append(errs, FieldError{Field: t.field, Message: "timeout must be positive"})
		}
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "admin.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{Field: "admin.tls.cert_file", Message: "cert_file is required when TLS is enabled"})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{Field: "admin.tls.key_file", Message: "key_file is required when TLS is enabled"})
		}
		if cfg.TLS.MinVersion != "1.2" && cfg.TLS.MinVersion != "1.3" {
			errs = append(errs, FieldError{
				Field:   "admin.tls.min_version",
				Message: fmt.Sprintf("unsupported TLS version %q (want 1.2 or 1.3)", cfg.TLS.MinVersion),
			})
		}
		if cfg.TLS.ReloadInterval <= 0 {
			errs = append(errs, FieldError{Field: "admin.tls.cert_reload_interval", Message: "reload interval must be positive"})
		}
	}

	return errs
}

func validateStats(cfg *StatsConfig) []FieldError {
	var errs []FieldError

	if cfg.FlushSchedule != "" {
		if _, err := cron.ParseStandard(cfg.FlushSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "stats.flush_schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.FlushSchedule, err),
			})
		}
	}

	if len(cfg.HistogramBuckets) == 0 {
		errs = append(errs, FieldError{
			Field:   "stats.histogram_buckets",
			Message: "at least one bucket is required",
		})
	}
	for i, b := range cfg.HistogramBuckets {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("stats.histogram_buckets[%d]", i),
				Message: "bucket bound must be finite",
			})
			continue
		}
		if i > 0 && b <= cfg.HistogramBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("stats.histogram_buckets[%d]", i),
				Message: "bucket bounds must be strictly increasing",
			})
		}
	}

	for i, ns := range cfg.CustomNamespaces {
		if !validName.MatchString(ns) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("stats.custom_namespaces[%d]", i),
				Message: fmt.Sprintf("namespace %q must match [a-zA-Z0-9_]+", ns),
			})
		}
	}

	if !validName.MatchString(cfg.PrometheusPrefix) || (cfg.PrometheusPrefix[0] >= '0' && cfg.PrometheusPrefix[0] <= '9') {
		errs = append(errs, FieldError{
			Field:   "stats.prometheus_prefix",
			Message: fmt.Sprintf("prefix %q must match [a-zA-Z_][a-zA-Z0-9_]*", cfg.PrometheusPrefix),
		})
	}

	if _, err := render.ParseBucketMode(cfg.DefaultBucketMode); err != nil {
		errs = append(errs, FieldError{
			Field:   "stats.default_bucket_mode",
			Message: fmt.Sprintf("%v: must be 'none', 'cumulative' or 'disjoint'", err),
		})
	}

	for i, rule := range cfg.TagRules {
		if _, err := stats.NewTagExtractor([]stats.TagRule{{Name: rule.Name, Regex: rule.Regex}}); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("stats.tag_rules[%d]", i),
				Message: err.Error(),
			})
		}
	}

	if !cfg.Runtime.Disabled && strings.TrimSpace(cfg.Runtime.Prefix) == "" {
		errs = append(errs, FieldError{
			Field:   "stats.runtime.prefix",
			Message: "runtime prefix is required when the runtime bridge is enabled",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text' or 'console'", cfg.Logging.Format),
		})
	}

	if !cfg.Metrics.Disabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if cfg.Tracing.Enabled && !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter != "otlp" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.exporter",
			Message: fmt.Sprintf("unsupported exporter %q: only 'otlp' is available", cfg.Tracing.Exporter),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	paths := []struct{ field, path string }{
		{"telemetry.health.liveness_path", cfg.Health.LivenessPath},
		{"telemetry.health.readiness_path", cfg.Health.ReadinessPath},
	}
	for _, p := range paths {
		if !strings.HasPrefix(p.path, "/") {
			errs = append(errs, FieldError{Field: p.field, Message: "path must start with /"})
		}
	}
	if cfg.Health.CheckTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.check_timeout",
			Message: "check timeout must be positive",
		})
	}
	if cfg.Health.MaxFlushAge < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.max_flush_age",
			Message: "max flush age must be non-negative",
		})
	}

	return errs
}
