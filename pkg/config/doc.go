// Package config provides configuration management for the stats admin server.
//
// Configuration is read from a YAML file, completed with defaults, overlaid
// with environment variables and validated before use.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("statsrender.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("statsrender.yaml")
//
// Unknown YAML fields are rejected so that typos fail loudly.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention STATSRENDER_SECTION_FIELD:
//
//   - STATSRENDER_ADMIN_LISTEN_ADDRESS overrides admin.listen_address
//   - STATSRENDER_STATS_DEFAULT_BUCKET_MODE overrides stats.default_bucket_mode
//   - STATSRENDER_STATS_CUSTOM_NAMESPACES takes a comma separated list
//   - STATSRENDER_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Live Reload
//
// Live holds the active configuration behind an atomic pointer. Watcher
// observes the file on disk and calls Live.Reload when it changes:
//
//	live := config.NewLive(path, cfg)
//	w, _ := config.NewWatcher(path, 0, logger)
//	go w.Watch(ctx, live.Reload)
//
// Only the stats section (custom namespaces, Prometheus prefix and default
// bucket mode) takes effect without a restart.
//
// # Validation
//
// Validation errors carry the dotted field path:
//
//	configuration validation failed with 2 errors:
//	  - stats.histogram_buckets[2]: bucket bounds must be strictly increasing
//	  - stats.default_bucket_mode: unknown bucket mode "detailed"
//
// # Example Configuration
//
//	admin:
//	  listen_address: "127.0.0.1:9901"
//
//	stats:
//	  flush_schedule: "@every 5s"
//	  custom_namespaces: ["wasm"]
//	  default_bucket_mode: "cumulative"
//	  tag_rules:
//	    - name: cluster_name
//	      regex: '^cluster\.((.+?)\.)'
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
