package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for stats rendering spans. Custom keys use the
// "statsrender.*" namespace.
const (
	// Request attributes
	AttrFormat     = "statsrender.format"
	AttrBucketMode = "statsrender.histogram_buckets"
	AttrUsedOnly   = "statsrender.usedonly"
	AttrFilter     = "statsrender.filter"
	AttrType       = "statsrender.type"
	AttrRequestID  = "statsrender.request_id"

	// Result attributes
	AttrStatsCount        = "statsrender.stats"
	AttrResponseBytes     = "statsrender.response_bytes"
	AttrHistogramsDropped = "statsrender.histograms_dropped"

	// EventHistogramsDropped marks a JSON response whose histogram block was
	// left out.
	EventHistogramsDropped = "histograms_dropped"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// SetRenderAttributes sets the query parameters of a stats request on a span.
func SetRenderAttributes(span trace.Span, format, mode string, usedOnly bool, filter, statType string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrFormat, format),
		attribute.String(AttrBucketMode, mode),
		attribute.Bool(AttrUsedOnly, usedOnly),
	}
	if filter != "" {
		attrs = append(attrs, attribute.String(AttrFilter, filter))
	}
	if statType != "" {
		attrs = append(attrs, attribute.String(AttrType, statType))
	}
	span.SetAttributes(attrs...)
}

// SetResultAttributes records what a render produced.
func SetResultAttributes(span trace.Span, stats, responseBytes, histogramsDropped int) {
	span.SetAttributes(
		attribute.Int(AttrStatsCount, stats),
		attribute.Int(AttrResponseBytes, responseBytes),
	)
	if histogramsDropped > 0 {
		AddEvent(span, EventHistogramsDropped, attribute.Int(AttrHistogramsDropped, histogramsDropped))
	}
}

// AddEvent adds an event to the span.
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetRequestID records the admin request id, if any, on a span.
func SetRequestID(span trace.Span, requestID string) {
	if requestID != "" {
		span.SetAttributes(attribute.String(AttrRequestID, requestID))
	}
}
