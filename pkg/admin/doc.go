// Package admin drives the stats renderers for the admin HTTP endpoints.
//
// A request walks the stat set once. Text and JSON output lists text
// readouts first, then counters and gauges interleaved by name, then
// histograms. Prometheus output groups stats into families by tag-extracted
// name: counter families, gauge families, text readout families when
// text_readouts is set, then histogram families.
//
// The body is rendered into a buffer before anything is written, so a
// failure while rendering never leaves a truncated response behind.
//
// # Query parameters
//
//	format             text (default), json or prometheus
//	usedonly           only stats that were written at least once
//	filter             RE2 expression matched against the stat name
//	histogram_buckets  none, cumulative or disjoint
//	type               All, Counters, Gauges, Histograms or TextReadouts
//	text_readouts      include text readouts in Prometheus output
package admin
