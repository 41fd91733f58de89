// nback is a terminal N-back working-memory trainer.
//
// Usage:
//
//	nback menu              - Home screen with settings, scores and play
//	nback play              - Start a game directly
//	nback scores [mode]     - Show results for a mode
//	nback list              - List speech backends and difficulty presets
//	nback config            - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (YAML or TOML)
//	--db <path>         - Results database (default from config: ~/.nback/nback.db)
//	--seed <value>      - RNG seed for reproducible sequences
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Log destination (default from config: ~/.nback/nback.log)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagFPS      int
	flagLogLevel string
	flagLogFile  string
	flagTheme    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nback",
	Short: "N-back - Train working memory in your terminal",
	Long: `N-back is a terminal working-memory trainer. Each stimulus stays on screen
for a fixed interval; claim a match when it equals the one N steps back.

Available commands:
  menu     - Home screen with settings and scores
  play     - Start a game directly
  scores   - View past results
  list     - Show speech backends and presets
  config   - Print the effective configuration

Examples:
  nback menu
  nback play --mode audiovisual --n 3
  nback play --preset hard
  nback scores visual`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 20, "Redraw rate for the countdown bar")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Path to log file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "default", "Color theme: default, mono")

	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}
