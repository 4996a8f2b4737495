// Package metrics provides Prometheus self metrics for the stats admin server.
//
// # Overview
//
// These metrics describe the admin server itself and are served on the
// configured metrics path (default /metrics) by promhttp. They are distinct
// from the stats the server renders on /stats and /stats/prometheus,
// although the runtime bridge can re-export them as stats.
//
// # Metrics Categories
//
//   - Render Metrics: request count, render duration, response size, stats emitted
//   - Flush Metrics: flush count, duration, last flush time
//   - Reload Metrics: configuration reload attempts by result
//   - Go runtime and process metrics
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	collector.RecordRender("json", "cumulative", "ok", elapsed, n, stats)
//
// # Cardinality Management
//
// Label combinations are capped by a CardinalityLimiter. Combinations past
// the cap are aggregated into "other".
package metrics
