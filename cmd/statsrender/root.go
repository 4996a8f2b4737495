package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/statsrender/pkg/cli"
	"mercator-hq/statsrender/pkg/config"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "statsrender",
	Short: "Statsrender - admin stats endpoint",
	Long: `Statsrender serves a process's counters, gauges, text readouts and
histograms over an admin HTTP endpoint in plain text, JSON or the Prometheus
exposition format.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var cerr *cli.ConfigError
		if errors.As(err, &cerr) {
			for _, f := range cerr.Fields() {
				fmt.Fprintf(os.Stderr, "  - %s\n", f)
			}
		}
	}
	return cli.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
}

// loadConfig loads the file named by --config with environment overrides.
// When the flag was left at its default and the file does not exist, the
// built-in defaults with environment overrides are used and fromFile is
// false.
func loadConfig(cmd *cobra.Command) (cfg *config.Config, fromFile bool, err error) {
	if !cmd.Flags().Changed("config") {
		if _, statErr := os.Stat(cfgFile); errors.Is(statErr, fs.ErrNotExist) {
			cfg, err = config.DefaultsWithEnvOverrides()
			if err != nil {
				return nil, false, cli.NewConfigError("defaults", err)
			}
			return cfg, false, nil
		}
	}

	cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, false, cli.NewConfigError(cfgFile, err)
	}
	return cfg, true, nil
}
