// Statsrender serves a process's statistics over an admin HTTP endpoint.
//
// The admin endpoint renders counters, gauges, text readouts and histograms
// as plain text, JSON or the Prometheus exposition format:
//   - /stats                 text or JSON, selected with ?format=
//   - /stats/prometheus      Prometheus exposition format
//   - /health, /ready        liveness and readiness probes
//   - /metrics               the server's own metrics
//
// Usage:
//
//	# Start the admin server with default configuration
//	statsrender serve
//
//	# Start with a custom configuration file
//	statsrender serve --config /etc/statsrender/config.yaml
//
//	# Print the current process stats once
//	statsrender render --format json --histogram-buckets cumulative
//
//	# Check a configuration file
//	statsrender validate --config config.yaml
//
//	# Show version information
//	statsrender version
package main

import "os"

func main() {
	os.Exit(Execute())
}
