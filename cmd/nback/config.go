package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-nback/internal/config"
)

var (
	flagFormat   string
	flagDefaults bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration the trainer would run with, after the search order
and the global flag overrides. The output is a valid config file.

Search order:
  --config <path>
  ~/.nback/configs/nback.yaml
  ~/.nback/configs/nback.toml
  ./configs/nback.yaml
  built-in defaults

Examples:
  nback config
  nback config --format toml > ~/.nback/configs/nback.toml
  nback config --defaults`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().StringVar(&flagFormat, "format", "yaml", "Output format: yaml, toml")
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in defaults instead")
}

func runConfig(_ *cobra.Command, _ []string) {
	format, err := config.ParseFormat(flagFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := writeConfig(os.Stdout, format, flagDefaults); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// writeConfig prints the effective or built-in configuration to w, headed
// by a comment naming where it came from.
func writeConfig(w io.Writer, format config.Format, defaults bool) error {
	var data []byte
	source := "defaults"
	if defaults && format == config.FormatYAML {
		data = config.DefaultYAML()
	} else {
		cfg := config.DefaultConfig()
		if !defaults {
			var err error
			cfg, source, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			applyGlobalFlags(&cfg)
		}
		var err error
		data, err = config.Encode(cfg, format)
		if err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "# source: %s\n", source); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
