// Package render turns a stats snapshot into one of three wire formats.
//
// # Overview
//
// One renderer is constructed per admin request. The request driver calls a
// Generate method once per stat, in its own iteration order, then calls
// Finalize exactly once and ships the Sink as the response body:
//
//	var buf bytes.Buffer
//	r := render.NewJSON(&buf, render.NoBuckets)
//	r.GenerateValue(&buf, "requests_total", 42)
//	r.GenerateHistogram(&buf, "upstream_rq_time", h)
//	r.Finalize(&buf)
//
// # Formats
//
//   - Text: one "<name>: <value>" line per stat, fully streaming.
//   - JSON: scalars stream into {"stats":[...]}; histograms are buffered and
//     written as one block at Finalize so shared fields appear once.
//   - Prometheus: exposition text grouped per metric family. The driver
//     groups stats by tag-extracted name and resolves the family name with
//     MetricName before calling the family Generate methods.
//
// # Histogram Bucket Modes
//
// A renderer is bound to a BucketMode at construction:
//
//   - NoBuckets: quantile summary only
//   - Cumulative: lifetime bucket counts
//   - Disjoint: per-bucket counts
//
// Prometheus output always uses the cumulative view regardless of the mode.
//
// # Errors
//
// Renderers never return errors. Statistic vectors of mismatched length are
// a bug in the statistics layer and panic with a *ContractViolation. A
// histogram block the JSON encoder cannot produce is dropped from the
// document and logged.
package render
