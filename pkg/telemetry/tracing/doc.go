// Package tracing provides OpenTelemetry tracing for the stats admin server.
//
// # Overview
//
// Every admin request runs inside a server span created by Tracer.Middleware.
// Rendering adds a child span carrying the output format, bucket mode and
// the number of stats emitted. Spans are exported over OTLP gRPC.
//
// # Trace Context Propagation
//
// W3C Trace Context headers on incoming scrapes are honored, so a scrape
// issued by a traced collector shows up in the collector's trace:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling Strategies
//
//   - always: Sample all traces (development/debugging)
//   - never: Sample no traces
//   - ratio: Sample a percentage of traces (production)
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	handler = tracer.Middleware(handler)
//
// When tracing is disabled New returns a tracer backed by the noop provider.
package tracing
