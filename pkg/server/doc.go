// Package server runs the admin HTTP server that exposes the stats, health
// and self metrics endpoints.
//
// # Routes
//
//	/stats              admin.Handler, format from the query
//	/stats/prometheus   admin.Handler, Prometheus exposition format
//	/health, /ready     health probes (paths configurable)
//	/metrics            self metrics registry (path configurable)
//
// # Usage
//
//	srv := server.New(&cfg.Admin, server.Routes{
//	    Stats:        statsHandler,
//	    Health:       checker,
//	    HealthConfig: cfg.Telemetry.Health,
//	    Metrics:      collector.Handler(),
//	    MetricsPath:  cfg.Telemetry.Metrics.Path,
//	    Tracer:       tracer,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Pass WithTLS to serve HTTPS; package certs builds the TLS configuration
// and reloads the certificate. Start blocks until ctx is canceled.
// Listening on port 0 picks a free port; Addr reports the bound address
// once Start has begun serving.
package server
