package config

import (
	"slices"
	"time"
)

// Default values for configuration fields.
const (
	// Admin defaults
	DefaultListenAddress   = "127.0.0.1:9901"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultTLSMinVersion   = "1.3"
	DefaultTLSReload       = 5 * time.Minute

	// Stats and telemetry defaults
	DefaultFlushSchedule     = "@every 5s"
	DefaultPrometheusPrefix  = "envoy_"
	DefaultBucketMode        = "none"
	DefaultRuntimePrefix     = "runtime"
	DefaultMetricsPath       = "/metrics"
	DefaultMetricsNamespace  = "statsrender"
	DefaultMetricsSubsystem  = "admin"
	DefaultLoggingLevel      = "info"
	DefaultLoggingFormat     = "json"
	DefaultTracingSampler    = "ratio"
	DefaultTracingRatio      = 0.1
	DefaultTracingExporter   = "otlp"
	DefaultTracingService    = "statsrender"
	DefaultOTLPTimeout       = 10 * time.Second
	DefaultLivenessPath      = "/health"
	DefaultReadinessPath     = "/ready"
	DefaultHealthTimeout     = 5 * time.Second
	DefaultHealthMaxFlushAge = time.Minute
)

// DefaultHistogramBuckets are the supported histogram bucket bounds used when
// none are configured.
var DefaultHistogramBuckets = []float64{
	0.5, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000,
	30000, 60000, 300000, 600000, 1800000, 3600000,
}

// DefaultRenderDurationBuckets are the self metrics buckets for render
// duration in seconds.
var DefaultRenderDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	applyAdminDefaults(&cfg.Admin)
	applyStatsDefaults(&cfg.Stats)
	applyTelemetryDefaults(&cfg.Telemetry)
}

// NewDefaultConfig returns a configuration with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func applyAdminDefaults(cfg *AdminConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.TLS.MinVersion == "" {
		cfg.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.TLS.ReloadInterval == 0 {
		cfg.TLS.ReloadInterval = DefaultTLSReload
	}
}

func applyStatsDefaults(cfg *StatsConfig) {
	if cfg.FlushSchedule == "" {
		cfg.FlushSchedule = DefaultFlushSchedule
	}
	if len(cfg.HistogramBuckets) == 0 {
		cfg.HistogramBuckets = slices.Clone(DefaultHistogramBuckets)
	}
	if cfg.PrometheusPrefix == "" {
		cfg.PrometheusPrefix = DefaultPrometheusPrefix
	}
	if cfg.DefaultBucketMode == "" {
		cfg.DefaultBucketMode = DefaultBucketMode
	}
	if cfg.Runtime.Prefix == "" {
		cfg.Runtime.Prefix = DefaultRuntimePrefix
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	// Metrics
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Metrics.RenderDurationBuckets) == 0 {
		cfg.Metrics.RenderDurationBuckets = slices.Clone(DefaultRenderDurationBuckets)
	}

	// Tracing
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Tracing.Exporter == "" {
		cfg.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Tracing.OTLP.Timeout == 0 {
		cfg.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}

	// Health
	if cfg.Health.LivenessPath == "" {
		cfg.Health.LivenessPath = DefaultLivenessPath
	}
	if cfg.Health.ReadinessPath == "" {
		cfg.Health.ReadinessPath = DefaultReadinessPath
	}
	if cfg.Health.CheckTimeout == 0 {
		cfg.Health.CheckTimeout = DefaultHealthTimeout
	}
	if cfg.Health.MaxFlushAge == 0 {
		cfg.Health.MaxFlushAge = DefaultHealthMaxFlushAge
	}
}
