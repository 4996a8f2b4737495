// Package telemetry groups the observability of the admin server itself.
//
// # Components
//
//   - logging: structured slog logging with request context fields
//   - metrics: Prometheus self metrics (render latency, flushes, reloads)
//   - tracing: OpenTelemetry spans for admin requests
//   - health: liveness and readiness probes
//
// These describe the server, not the stats it renders. The metrics registry
// can still be served as stats through the runtime bridge in
// stats/promsource.
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	slog.SetDefault(logger.Slog())
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(context.Background())
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.Register("flush", health.FlushAgeCheck(scheduler.LastFlush, maxAge))
package telemetry
