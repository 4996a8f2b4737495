package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler exposing the collector's registry in the
// Prometheus exposition format. It is mounted at MetricsConfig.Path.
//
// Gathering errors are logged and the remaining metrics are still served.
func (c *Collector) Handler() http.Handler {
	return c.HandlerWithOptions(promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
		ErrorLog:          errorLogger{slog.Default().With("component", "metrics")},
		Registry:          c.registry,
	})
}

// HandlerWithOptions returns an HTTP handler with custom options.
func (c *Collector) HandlerWithOptions(opts promhttp.HandlerOpts) http.Handler {
	return promhttp.HandlerFor(c.registry, opts)
}

// errorLogger adapts slog to promhttp.Logger.
type errorLogger struct {
	logger *slog.Logger
}

func (l errorLogger) Println(v ...any) {
	l.logger.Error("metrics gathering failed", "error", v)
}
