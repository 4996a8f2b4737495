package admin

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"mercator-hq/statsrender/pkg/render"
	"mercator-hq/statsrender/pkg/stats"
	"mercator-hq/statsrender/pkg/stats/promsource"
	"mercator-hq/statsrender/pkg/telemetry/logging"
	"mercator-hq/statsrender/pkg/telemetry/metrics"
	"mercator-hq/statsrender/pkg/telemetry/tracing"
)

// Request outcomes recorded in the render metrics.
const (
	statusOK         = "ok"
	statusBadRequest = "bad_request"
	statusPanic      = "panic"
)

// Options configure a Handler. Store is required; every other field may be
// left zero.
type Options struct {
	Store *stats.Store

	// Runtime adds the stats of a Prometheus registry to every response.
	Runtime *promsource.Source

	// Namespaces and PrometheusPrefix drive Prometheus metric naming.
	Namespaces       *stats.CustomNamespaces
	PrometheusPrefix string

	// DefaultBucketMode applies when a request has no histogram_buckets
	// parameter.
	DefaultBucketMode render.BucketMode

	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
}

// Handler serves the admin stats endpoints.
type Handler struct {
	store       *stats.Store
	runtime     *promsource.Source
	namespaces  *stats.CustomNamespaces
	prefix      string
	defaultMode render.BucketMode
	metrics     *metrics.Collector
	tracer      *tracing.Tracer
	logger      *slog.Logger
}

// NewHandler creates a stats handler.
func NewHandler(opts Options) *Handler {
	return &Handler{
		store:       opts.Store,
		runtime:     opts.Runtime,
		namespaces:  opts.Namespaces,
		prefix:      opts.PrometheusPrefix,
		defaultMode: opts.DefaultBucketMode,
		metrics:     opts.Metrics,
		tracer:      opts.Tracer,
		logger:      slog.Default().With("component", "admin"),
	}
}

// Mount registers /stats and /stats/prometheus on mux.
func (h *Handler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("/stats", h.ServeStats)
	mux.HandleFunc("/stats/prometheus", h.ServePrometheus)
}

// ServeStats renders the stats in the format named by the format parameter.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "")
}

// ServePrometheus renders the stats in Prometheus exposition format whatever
// the format parameter says.
func (h *Handler) ServePrometheus(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, render.FormatPrometheus)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, force render.Format) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	if force != "" {
		q.Set(ParamFormat, string(force))
	}
	p, err := ParseParams(q, h.defaultMode)
	if err != nil {
		h.recordRender("invalid", h.defaultMode.String(), statusBadRequest, 0, 0, 0)
		h.logger.DebugContext(r.Context(), "rejected stats request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, span := h.startSpan(r.Context(), "admin.stats")
	defer span.End()
	ctx = logging.WithFormat(ctx, string(p.Format))
	tracing.SetRenderAttributes(span, string(p.Format), p.BucketMode.String(), p.UsedOnly, p.filterString(), p.Type.String())
	tracing.SetRequestID(span, logging.GetRequestID(ctx))

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			h.recordRender(string(p.Format), p.BucketMode.String(), statusPanic, time.Since(start), 0, 0)
			tracing.SetError(span, fmt.Errorf("render panic: %v", rec))
			panic(rec)
		}
	}()

	var buf bytes.Buffer
	res := h.Render(ctx, p, &buf)
	duration := time.Since(start)
	size := buf.Len()

	w.Header().Set("Content-Type", p.Format.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = buf.WriteTo(w)
	}

	h.recordRender(string(p.Format), p.BucketMode.String(), statusOK, duration, size, res.Stats)
	if h.metrics != nil {
		for range res.HistogramsDropped {
			h.metrics.RecordHistogramDropped()
		}
	}
	tracing.SetResultAttributes(span, res.Stats, size, res.HistogramsDropped)

	h.logger.DebugContext(ctx, "rendered stats",
		"mode", p.BucketMode.String(),
		"stats", res.Stats,
		"bytes", size,
		"duration_ms", duration.Milliseconds(),
	)
}

func (h *Handler) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if h.tracer == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return h.tracer.Start(ctx, name)
}

func (h *Handler) recordRender(format, mode, status string, duration time.Duration, size, n int) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordRender(format, mode, status, duration, size, n)
}
