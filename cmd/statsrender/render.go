package main

import (
	"bufio"
	"net/url"

	"github.com/spf13/cobra"

	"mercator-hq/statsrender/pkg/admin"
	"mercator-hq/statsrender/pkg/cli"
	"mercator-hq/statsrender/pkg/config"
	"mercator-hq/statsrender/pkg/render"
	"mercator-hq/statsrender/pkg/stats"
	"mercator-hq/statsrender/pkg/stats/promsource"
	"mercator-hq/statsrender/pkg/telemetry/metrics"
)

var renderFlags struct {
	format       string
	buckets      string
	filter       string
	statType     string
	usedOnly     bool
	textReadouts bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the current process stats once",
	Long: `Render the stats of this process to stdout in the same formats the
admin endpoint serves. The Go runtime and process metrics are included
through the runtime bridge unless it is disabled in the configuration.

Examples:
  # Plain text
  statsrender render

  # JSON with cumulative histogram buckets
  statsrender render --format json --histogram-buckets cumulative

  # Prometheus exposition of the goroutine gauges only
  statsrender render --format prometheus --type Gauges --filter goroutines`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderFlags.format, "format", "f", "text", "output format: text, json, prometheus")
	renderCmd.Flags().StringVar(&renderFlags.buckets, "histogram-buckets", "", "histogram bucket mode: none, cumulative, disjoint (uses config if not specified)")
	renderCmd.Flags().StringVar(&renderFlags.filter, "filter", "", "only render stats whose name matches this regular expression")
	renderCmd.Flags().StringVar(&renderFlags.statType, "type", "", "stat type: All, Counters, Gauges, Histograms, TextReadouts")
	renderCmd.Flags().BoolVar(&renderFlags.usedOnly, "usedonly", false, "only render stats that have been written")
	renderCmd.Flags().BoolVar(&renderFlags.textReadouts, "text-readouts", false, "include text readouts in prometheus output")
}

// renderQuery maps the render flags onto the admin query parameters so
// both surfaces share one parser.
func renderQuery() url.Values {
	q := url.Values{}
	q.Set(admin.ParamFormat, renderFlags.format)
	if renderFlags.buckets != "" {
		q.Set(admin.ParamHistogramBuckets, renderFlags.buckets)
	}
	if renderFlags.filter != "" {
		q.Set(admin.ParamFilter, renderFlags.filter)
	}
	if renderFlags.statType != "" {
		q.Set(admin.ParamType, renderFlags.statType)
	}
	if renderFlags.usedOnly {
		q.Set(admin.ParamUsedOnly, "")
	}
	if renderFlags.textReadouts {
		q.Set(admin.ParamTextReadouts, "")
	}
	return q
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	mode, err := render.ParseBucketMode(cfg.Stats.DefaultBucketMode)
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	params, err := admin.ParseParams(renderQuery(), mode)
	if err != nil {
		return cli.NewCommandError("render", err)
	}

	handler, err := newRenderHandler(cfg)
	if err != nil {
		return cli.NewCommandError("render", err)
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	handler.Render(cmd.Context(), params, out)
	if err := out.Flush(); err != nil {
		return cli.NewCommandError("render", err)
	}
	return nil
}

// newRenderHandler builds a handler over a fresh store and, unless
// disabled, the runtime metrics of this process.
func newRenderHandler(cfg *config.Config) (*admin.Handler, error) {
	store, err := newStore(&cfg.Stats)
	if err != nil {
		return nil, err
	}
	recordServerStats(store)

	opts := admin.Options{
		Store:            store,
		Namespaces:       stats.NewCustomNamespaces(cfg.Stats.CustomNamespaces...),
		PrometheusPrefix: cfg.Stats.PrometheusPrefix,
	}
	if !cfg.Stats.Runtime.Disabled {
		collector := metrics.NewCollector(&config.MetricsConfig{Disabled: true}, nil)
		opts.Runtime = promsource.New(collector.Registry(), cfg.Stats.Runtime.Prefix)
	}
	return admin.NewHandler(opts), nil
}
