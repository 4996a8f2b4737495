package main

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/statsrender/pkg/admin"
	"mercator-hq/statsrender/pkg/cli"
	"mercator-hq/statsrender/pkg/config"
	"mercator-hq/statsrender/pkg/render"
	"mercator-hq/statsrender/pkg/server"
	"mercator-hq/statsrender/pkg/server/certs"
	"mercator-hq/statsrender/pkg/stats"
	"mercator-hq/statsrender/pkg/stats/promsource"
	"mercator-hq/statsrender/pkg/telemetry/health"
	"mercator-hq/statsrender/pkg/telemetry/logging"
	"mercator-hq/statsrender/pkg/telemetry/metrics"
	"mercator-hq/statsrender/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin stats server",
	Long: `Start the admin HTTP server with the specified configuration.

The server renders the process stats at /stats and /stats/prometheus, serves
health probes and its own metrics, closes histogram intervals on the
configured flush schedule and reloads the configuration file when it changes
or on SIGHUP.

Examples:
  # Start with default config
  statsrender serve

  # Start with custom config
  statsrender serve --config /etc/statsrender/config.yaml

  # Override listen address
  statsrender serve --listen 0.0.0.0:9901

  # Validate config without starting server
  statsrender serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, fromFile, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Admin.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError(cfgFile, err)
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewConfigError(cfgFile, err)
	}
	slog.SetDefault(logger.Slog())

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "configuration valid")
		return nil
	}

	ctx, stop := cli.ShutdownContext(cmd.Context())
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer a.close()

	if fromFile {
		if err := a.watchConfig(ctx, cfgFile, cfg); err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		}
	}

	if a.certs != nil {
		if err := a.certs.Start(ctx); err != nil {
			return cli.NewCommandError("serve", fmt.Errorf("failed to load TLS certificate: %w", err))
		}
	}
	if err := a.scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}

	logger.Info("statsrender starting",
		"version", Version,
		"config", cfgFile,
		"from_file", fromFile,
		"address", cfg.Admin.ListenAddress,
	)
	if err := a.server.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// app is the wired serve process.
type app struct {
	logger     *logging.Logger
	tracer     *tracing.Tracer
	collector  *metrics.Collector
	store      *stats.Store
	namespaces *stats.CustomNamespaces
	runtime    *promsource.Source
	scheduler  *stats.FlushScheduler
	checker    *health.Checker
	handler    *admin.Handler
	server     *server.Server
	watcher    *config.Watcher
	certs      *certs.Reloader
	started    time.Time
}

func newApp(cfg *config.Config, logger *logging.Logger) (*app, error) {
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	a := &app{logger: logger, tracer: tracer, started: time.Now()}

	a.collector = metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())

	a.store, err = newStore(&cfg.Stats)
	if err != nil {
		return nil, err
	}
	recordServerStats(a.store)
	a.namespaces = stats.NewCustomNamespaces(cfg.Stats.CustomNamespaces...)
	a.collector.UpdateCustomNamespaces(a.namespaces.Len())

	if !cfg.Stats.Runtime.Disabled {
		a.runtime = promsource.New(a.collector.Registry(), cfg.Stats.Runtime.Prefix)
	}

	a.scheduler = stats.NewFlushScheduler(a.store, cfg.Stats.FlushSchedule)
	a.scheduler.OnFlush(a.afterFlush)

	a.checker = health.New(cfg.Telemetry.Health.CheckTimeout)
	if cfg.Stats.FlushSchedule != "" {
		a.checker.Register("flush", health.FlushAgeCheck(a.scheduler.LastFlush, cfg.Telemetry.Health.MaxFlushAge))
	}

	mode, err := render.ParseBucketMode(cfg.Stats.DefaultBucketMode)
	if err != nil {
		return nil, err
	}
	a.handler = admin.NewHandler(admin.Options{
		Store:             a.store,
		Runtime:           a.runtime,
		Namespaces:        a.namespaces,
		PrometheusPrefix:  cfg.Stats.PrometheusPrefix,
		DefaultBucketMode: mode,
		Metrics:           a.collector,
		Tracer:            tracer,
	})

	routes := server.Routes{
		Stats:        a.handler,
		Health:       a.checker,
		HealthConfig: cfg.Telemetry.Health,
	}
	if !cfg.Telemetry.Metrics.Disabled {
		routes.Metrics = a.collector.Handler()
		routes.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	if tracer.Enabled() {
		routes.Tracer = tracer
	}

	var opts []server.Option
	if cfg.Admin.TLS.Enabled {
		a.certs = certs.NewReloader(cfg.Admin.TLS.CertFile, cfg.Admin.TLS.KeyFile, cfg.Admin.TLS.ReloadInterval)
		tlsConfig, err := certs.ServerConfig(cfg.Admin.TLS, a.certs)
		if err != nil {
			return nil, fmt.Errorf("invalid TLS configuration: %w", err)
		}
		opts = append(opts, server.WithTLS(tlsConfig))
		a.checker.Register("tls_certificate", a.certs.Check)
	}
	a.server = server.New(&cfg.Admin, routes, opts...)

	return a, nil
}

// newStore builds the stats store from the tag rules and histogram buckets.
func newStore(cfg *config.StatsConfig) (*stats.Store, error) {
	rules := make([]stats.TagRule, 0, len(cfg.TagRules))
	for _, r := range cfg.TagRules {
		rules = append(rules, stats.TagRule{Name: r.Name, Regex: r.Regex})
	}
	extractor, err := stats.NewTagExtractor(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to build tag extractor: %w", err)
	}
	return stats.NewStore(extractor, cfg.HistogramBuckets), nil
}

// recordServerStats sets the stats describing the binary itself.
func recordServerStats(store *stats.Store) {
	store.TextReadout("server.version").Set(Version)
}

// afterFlush advances the runtime bridge's interval baseline, updates the
// uptime gauge and records the flush.
func (a *app) afterFlush() {
	a.store.Gauge("server.uptime").Set(uint64(time.Since(a.started).Seconds()))
	if a.runtime != nil {
		if err := a.runtime.Flush(); err != nil {
			a.logger.Warn("runtime stats flush failed", "error", err)
		}
	}
	a.collector.RecordFlush(time.Since(a.scheduler.LastFlush()), len(a.store.Histograms()))
}

// watchConfig reloads the configuration on file changes and on SIGHUP.
// Only the custom namespaces and the log level take effect without a
// restart.
func (a *app) watchConfig(ctx context.Context, path string, cfg *config.Config) error {
	watcher, err := config.NewWatcher(path, 0, a.logger.Slog())
	if err != nil {
		return err
	}
	a.watcher = watcher
	a.checker.Register("config", health.ConfigReloadCheck(watcher.LastError))

	live := config.NewLive(path, cfg)
	live.OnReload(a.applyConfig)

	reload := func() error {
		err := live.Reload()
		a.collector.RecordConfigReload(err)
		return err
	}

	go func() {
		if err := watcher.Watch(ctx, reload); err != nil {
			a.logger.Error("config watcher stopped", "error", err)
		}
	}()
	cli.OnReload(ctx, func() {
		a.logger.Info("SIGHUP received, reloading configuration")
		if err := reload(); err != nil {
			a.logger.Warn("config reload failed", "error", err)
		}
	})
	return nil
}

// applyConfig installs the reloadable settings of next.
func (a *app) applyConfig(prev, next *config.Config) {
	a.namespaces.Replace(next.Stats.CustomNamespaces)
	a.collector.UpdateCustomNamespaces(a.namespaces.Len())

	if err := a.logger.SetLevel(next.Telemetry.Logging.Level); err != nil {
		a.logger.Warn("ignoring reloaded log level", "error", err)
	}

	if !reflect.DeepEqual(prev.Admin, next.Admin) {
		a.logger.Warn("admin listener settings changed; restart to apply")
	}
	a.logger.Info("configuration reloaded", "custom_namespaces", a.namespaces.Len())
}

// close stops the background components.
func (a *app) close() {
	a.scheduler.Stop()
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Warn("failed to stop config watcher", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Error("tracer shutdown failed", "error", err)
	}
}
