package config

import "time"

// Config is the root configuration structure for the stats renderer.
// It contains the admin listener, the stats model and the telemetry
// settings.
type Config struct {
	// Admin contains the admin HTTP listener configuration including listen
	// address and timeouts.
	Admin AdminConfig `yaml:"admin"`

	// Stats contains the statistic model configuration: histogram buckets,
	// flush schedule, tag extraction and Prometheus naming.
	Stats StatsConfig `yaml:"stats"`

	// Telemetry contains configuration for observability including logging,
	// metrics, tracing and health endpoints.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AdminConfig contains configuration for the admin HTTP server.
type AdminConfig struct {
	// ListenAddress is the address and port for the admin endpoint.
	// Format: "host:port" (e.g., "127.0.0.1:9901", "0.0.0.0:9901").
	// Default: "127.0.0.1:9901"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Large stats dumps must fit in this window.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// TLS serves the admin endpoint over HTTPS when enabled.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig configures HTTPS for the admin listener.
type TLSConfig struct {
	// Enabled indicates whether TLS should be used.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate file.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key file.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept.
	// Options: "1.2", "1.3"
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// CipherSuites limits the TLS 1.2 cipher suites. Empty selects Go's
	// secure defaults.
	CipherSuites []string `yaml:"cipher_suites"`

	// ReloadInterval is how often the certificate files are checked for
	// changes.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"cert_reload_interval"`
}

// StatsConfig contains configuration for the statistic model.
type StatsConfig struct {
	// FlushSchedule is the cron schedule on which histogram intervals are
	// closed. Accepts standard 5-field cron expressions and descriptors such
	// as "@every 5s". An empty schedule disables automatic flushing.
	// Default: "@every 5s"
	FlushSchedule string `yaml:"flush_schedule"`

	// HistogramBuckets are the supported bucket upper bounds for every
	// histogram, in strictly increasing order.
	// Default: 0.5 1 5 10 25 50 100 250 500 1000 2500 5000 10000 30000
	// 60000 300000 600000 1800000 3600000
	HistogramBuckets []float64 `yaml:"histogram_buckets"`

	// CustomNamespaces are stat name prefixes exported to Prometheus without
	// the PrometheusPrefix. The set is reloaded when the file changes.
	CustomNamespaces []string `yaml:"custom_namespaces"`

	// PrometheusPrefix is prepended to every other Prometheus metric name.
	// Default: "envoy_"
	PrometheusPrefix string `yaml:"prometheus_prefix"`

	// DefaultBucketMode is the histogram bucket mode used when a request does
	// not pass histogram_buckets.
	// Options: "none", "cumulative", "disjoint"
	// Default: "none"
	DefaultBucketMode string `yaml:"default_bucket_mode"`

	// TagRules extract tags from stat names, applied in order.
	TagRules []TagRuleConfig `yaml:"tag_rules"`

	// Runtime controls the bridge that serves the process Prometheus
	// registry (Go runtime, process and self metrics) as stats.
	Runtime RuntimeConfig `yaml:"runtime"`
}

// TagRuleConfig is one tag extraction rule.
type TagRuleConfig struct {
	// Name is the tag name, e.g. "cluster_name".
	Name string `yaml:"name"`

	// Regex must contain at least one capture group. The first group is
	// removed from the stat name and the last matching group is the value.
	// Example: "^cluster\\.((.+?)\\.)"
	Regex string `yaml:"regex"`
}

// RuntimeConfig configures the runtime metrics bridge.
type RuntimeConfig struct {
	// Disabled turns the bridge off.
	// Default: false
	Disabled bool `yaml:"disabled"`

	// Prefix is the first name segment of bridged stats.
	// Default: "runtime"
	Prefix string `yaml:"prefix"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains self metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains self metrics configuration.
type MetricsConfig struct {
	// Disabled turns self metrics recording off.
	// Default: false
	Disabled bool `yaml:"disabled"`

	// Path is the HTTP path of the native Prometheus endpoint for the self
	// metrics registry.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "statsrender"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "admin"
	Subsystem string `yaml:"subsystem"`

	// RenderDurationBuckets defines histogram buckets for render duration
	// (seconds).
	// Default: [0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	RenderDurationBuckets []float64 `yaml:"render_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the trace collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "statsrender"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health check endpoint configuration.
type HealthConfig struct {
	// LivenessPath is the path for the liveness probe endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout is the timeout for individual component health checks.
	// Default: 5s
	CheckTimeout time.Duration `yaml:"check_timeout"`

	// MaxFlushAge is how long the flush scheduler may go without a flush
	// before readiness fails. Zero disables the check.
	// Default: 1m
	MaxFlushAge time.Duration `yaml:"max_flush_age"`
}
