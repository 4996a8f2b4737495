package metrics

import (
	"time"

	"mercator-hq/statsrender/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// FlushMetrics tracks stats flushing and configuration reloads.
//
// Metrics:
//   - statsrender_admin_flushes_total: Completed flushes
//   - statsrender_admin_flush_duration_seconds: Flush duration histogram
//   - statsrender_admin_flushed_histograms: Histograms merged by the last flush
//   - statsrender_admin_last_flush_timestamp_seconds: Unix time of the last flush
//   - statsrender_admin_config_reloads_total: Reload attempts by result
//   - statsrender_admin_custom_namespaces: Registered custom namespaces
type FlushMetrics struct {
	flushesTotal     prometheus.Counter
	flushDuration    prometheus.Histogram
	histograms       prometheus.Gauge
	lastFlush        prometheus.Gauge
	reloadsTotal     *prometheus.CounterVec
	customNamespaces prometheus.Gauge
}

// NewFlushMetrics creates and registers flush metrics with the provided registry.
func NewFlushMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *FlushMetrics {
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		}
	}

	fm := &FlushMetrics{
		flushesTotal: prometheus.NewCounter(prometheus.CounterOpts(
			opts("flushes_total", "Total number of completed stats flushes"),
		)),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "flush_duration_seconds",
			Help:      "Time spent merging histograms on flush in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		histograms: prometheus.NewGauge(prometheus.GaugeOpts(
			opts("flushed_histograms", "Number of histograms merged by the most recent flush"),
		)),
		lastFlush: prometheus.NewGauge(prometheus.GaugeOpts(
			opts("last_flush_timestamp_seconds", "Unix time of the most recent stats flush"),
		)),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts(
			opts("config_reloads_total", "Total number of configuration reload attempts"),
		), []string{"result"}),
		customNamespaces: prometheus.NewGauge(prometheus.GaugeOpts(
			opts("custom_namespaces", "Number of registered custom stat namespaces"),
		)),
	}

	registry.MustRegister(
		fm.flushesTotal,
		fm.flushDuration,
		fm.histograms,
		fm.lastFlush,
		fm.reloadsTotal,
		fm.customNamespaces,
	)

	return fm
}

// RecordFlush records a completed flush.
func (fm *FlushMetrics) RecordFlush(duration time.Duration, histograms int) {
	fm.flushesTotal.Inc()
	fm.flushDuration.Observe(duration.Seconds())
	fm.histograms.Set(float64(histograms))
	fm.lastFlush.SetToCurrentTime()
}

// RecordReload records a reload attempt; err is nil on success.
func (fm *FlushMetrics) RecordReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	fm.reloadsTotal.WithLabelValues(result).Inc()
}
