// Package stats provides the statistic model served by the admin stats endpoint.
//
// # Overview
//
// A Store owns every counter, gauge, text readout and histogram in the process.
// Each statistic carries its full dot-segmented name, the tag-extracted name
// (the name with tag values removed) and the ordered list of extracted tags:
//
//	store := stats.NewStore(extractor, stats.DefaultBuckets())
//	store.Counter("cluster.backend.upstream_rq").Inc()
//	store.Histogram("cluster.backend.upstream_rq_time").RecordValue(12)
//
// # Histograms
//
// Histograms keep two statistic views. The interval view covers the samples
// recorded between the two most recent calls to Merge; the cumulative view
// covers every sample since creation. Both expose the supported bucket
// boundaries and quantiles together with the values computed for them:
//
//	h.Merge()
//	h.IntervalStatistics().ComputedQuantiles()
//	h.CumulativeStatistics().ComputedBuckets()
//
// Merge is normally driven by a FlushScheduler on a cron schedule.
//
// # Custom Namespaces
//
// CustomNamespaces records name prefixes that are exported to Prometheus
// without the default namespace prefix. The set can be replaced at runtime,
// for example when the configuration file changes.
package stats
