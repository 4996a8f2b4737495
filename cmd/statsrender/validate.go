package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateFlags struct {
	print bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file with defaults and environment overrides
applied and report every invalid field.

Examples:
  # Validate the default config.yaml
  statsrender validate

  # Validate and print the effective configuration
  statsrender validate --config /etc/statsrender/config.yaml --print`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.print, "print", false, "print the effective configuration as YAML")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, fromFile, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if validateFlags.print {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}

	if !fromFile {
		fmt.Fprintf(out, "%s not found; built-in defaults are valid\n", cfgFile)
		return nil
	}
	fmt.Fprintf(out, "%s is valid\n", cfgFile)
	return nil
}
