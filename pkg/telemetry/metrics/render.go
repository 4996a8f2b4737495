package metrics

import (
	"time"

	"mercator-hq/statsrender/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RenderMetrics tracks stats rendering on the admin endpoints.
//
// Metrics:
//   - statsrender_admin_render_requests_total: Requests by format, mode, status
//   - statsrender_admin_render_duration_seconds: Render duration histogram
//   - statsrender_admin_render_response_bytes: Response size histogram
//   - statsrender_admin_rendered_stats_total: Stats emitted by format
//   - statsrender_admin_json_histograms_dropped_total: Unencodable JSON histogram blocks
type RenderMetrics struct {
	requestsTotal     *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	responseBytes     *prometheus.HistogramVec
	statsTotal        *prometheus.CounterVec
	histogramsDropped prometheus.Counter
}

// NewRenderMetrics creates and registers render metrics with the provided registry.
func NewRenderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RenderMetrics {
	rm := &RenderMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "render_requests_total",
				Help:      "Total number of stats render requests",
			},
			[]string{"format", "mode", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "render_duration_seconds",
				Help:      "Time spent rendering stats in seconds",
				Buckets:   cfg.RenderDurationBuckets,
			},
			[]string{"format"},
		),

		responseBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "render_response_bytes",
				Help:      "Size of rendered stats responses in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 10), // 256B to 64MB
			},
			[]string{"format"},
		),

		statsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rendered_stats_total",
				Help:      "Total number of stats emitted",
			},
			[]string{"format"},
		),

		histogramsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "json_histograms_dropped_total",
				Help:      "Histogram blocks left out of JSON responses because they could not be encoded",
			},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.duration,
		rm.responseBytes,
		rm.statsTotal,
		rm.histogramsDropped,
	)

	return rm
}

// RecordRender records metrics for a completed render. Duration, size and
// stat counts are only observed for successful renders.
func (rm *RenderMetrics) RecordRender(format, mode, status string, duration time.Duration, bytes, stats int) {
	rm.requestsTotal.WithLabelValues(format, mode, status).Inc()
	if status != "ok" {
		return
	}

	rm.duration.WithLabelValues(format).Observe(duration.Seconds())
	rm.responseBytes.WithLabelValues(format).Observe(float64(bytes))
	if stats > 0 {
		rm.statsTotal.WithLabelValues(format).Add(float64(stats))
	}
}
