package metrics

import (
	"fmt"
	"sync"
	"time"

	"mercator-hq/statsrender/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the admin server's own Prometheus metrics. These describe
// the server itself (render latency, flushes, reloads) and are separate from
// the stats it renders.
//
// A Collector built from a disabled MetricsConfig still registers its
// metrics but ignores every Record call, so callers never need nil checks.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Render metrics
	renderMetrics *RenderMetrics

	// Flush and reload metrics
	flushMetrics *FlushMetrics

	// Cardinality tracking
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
// Go runtime and process collectors are registered alongside the admin
// metrics.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Namespace: "statsrender",
//		Subsystem: "admin",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.RenderDurationBuckets) == 0 {
		cfg.RenderDurationBuckets = config.DefaultRenderDurationBuckets
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c.renderMetrics = NewRenderMetrics(cfg, registry)
	c.flushMetrics = NewFlushMetrics(cfg, registry)

	return c
}

// RecordRender records a completed stats request.
//
// Parameters:
//   - format: Output format ("text", "json", "prometheus")
//   - mode: Histogram bucket mode ("none", "cumulative", "disjoint")
//   - status: Outcome ("ok", "bad_request", "panic")
//   - duration: Time spent rendering
//   - bytes: Response body size
//   - stats: Number of stats emitted
func (c *Collector) RecordRender(format, mode, status string, duration time.Duration, bytes, stats int) {
	if c.config.Disabled {
		return
	}

	labelSet := fmt.Sprintf("render:%s:%s:%s", format, mode, status)
	if !c.cardinalityLimiter.Allow(labelSet) {
		// Aggregate into "other" to prevent cardinality explosion
		format, mode = "other", "other"
	}

	c.renderMetrics.RecordRender(format, mode, status, duration, bytes, stats)
}

// RecordHistogramDropped records a JSON histogram block that could not be
// encoded and was left out of the response.
func (c *Collector) RecordHistogramDropped() {
	if c.config.Disabled {
		return
	}
	c.renderMetrics.histogramsDropped.Inc()
}

// RecordFlush records a completed stats flush.
func (c *Collector) RecordFlush(duration time.Duration, histograms int) {
	if c.config.Disabled {
		return
	}
	c.flushMetrics.RecordFlush(duration, histograms)
}

// RecordConfigReload records a configuration reload attempt.
func (c *Collector) RecordConfigReload(err error) {
	if c.config.Disabled {
		return
	}
	c.flushMetrics.RecordReload(err)
}

// UpdateCustomNamespaces sets the number of registered custom namespaces.
func (c *Collector) UpdateCustomNamespaces(n int) {
	if c.config.Disabled {
		return
	}
	c.flushMetrics.customNamespaces.Set(float64(n))
}

// Registry returns the Prometheus registry used by this collector. It also
// serves as the gatherer for the runtime stats bridge.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
