package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-nback/internal/config"
	"github.com/vovakirdan/tui-nback/internal/nback"
	"github.com/vovakirdan/tui-nback/internal/platform/tui"
)

var (
	flagMode         string
	flagN            int
	flagSize         int
	flagCombinations int
	flagPercent      int
	flagIntervalMs   int
	flagPreset       string
	flagSpeech       string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a game",
	Long: `Start an N-back game with the configured settings. Flags override the
config file; a preset is applied first, so --n and --interval still win.

Controls:
  A/Left       - Position match (visual)
  L/Right      - Letter match (audio)
  Space        - Match on the only channel (single modes)
  B/Esc        - Stop and leave
  R            - Play again (after the game ends)
  Q/Ctrl+C     - Quit

Difficulty presets:
  easy   - 1-back, 2.5s per stimulus
  normal - 2-back, 2.0s per stimulus
  hard   - 3-back, 1.5s per stimulus

Examples:
  nback play
  nback play --mode audio --speech espeak
  nback play --preset hard --size 20
  nback play --n 3 --combinations 16 --percent 40`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Mode: visual, audio, audiovisual")
	playCmd.Flags().IntVar(&flagN, "n", 0, "N, the lag distance")
	playCmd.Flags().IntVar(&flagSize, "size", 0, "Stimuli per game")
	playCmd.Flags().IntVar(&flagCombinations, "combinations", 0, "Alphabet size (perfect square for visual modes)")
	playCmd.Flags().IntVar(&flagPercent, "percent", 0, "Target share of matching positions, 0-100")
	playCmd.Flags().IntVar(&flagIntervalMs, "interval", 0, "Milliseconds per stimulus")
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagSpeech, "speech", "", "Speech backend (see 'nback list'), or auto")
}

// applyPlayFlags overlays the play flags that were set on the game section.
func applyPlayFlags(cmd *cobra.Command, g *config.GameSettings) error {
	if flagPreset != "" {
		preset, err := config.ParsePreset(flagPreset)
		if err != nil {
			return err
		}
		if err := config.ApplyPreset(g, preset); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		g.Mode = flagMode
	}
	if flags.Changed("n") {
		g.NBack = flagN
	}
	if flags.Changed("size") {
		g.Size = flagSize
	}
	if flags.Changed("combinations") {
		g.Combinations = flagCombinations
	}
	if flags.Changed("percent") {
		g.PercentMatch = flagPercent
	}
	if flags.Changed("interval") {
		g.IntervalMs = flagIntervalMs
	}
	return nil
}

func runPlay(cmd *cobra.Command, _ []string) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if flagSpeech != "" {
		a.cfg.Speech.Backend = flagSpeech
	}

	game := a.cfg.Game
	if err := applyPlayFlags(cmd, &game); err != nil {
		a.fail(err)
	}
	settings, err := game.Settings()
	if err != nil {
		a.fail(err)
	}

	rt := runtimeConfig()
	engine, err := a.newEngine(settings, rt)
	if err != nil {
		a.fail(err)
	}
	defer engine.Close()

	opts := tui.GameOptions{
		Settings: settings,
		Logger:   a.logger,
		Theme:    tui.ThemeByName(flagTheme),
		Config:   rt,
	}
	if a.store != nil {
		opts.Store = a.store
	}

	res, err := tui.RunGame(engine, opts)
	if err != nil {
		a.fail(fmt.Errorf("running game: %w", err))
	}
	if last := res.Last; last.Phase == nback.PhaseFinished {
		fmt.Printf("Score %d (hits %d, misses %d), high score %d\n", last.Score, last.Hits, last.Misses, engine.HighScore())
	}
}

// fail logs err, prints it and exits. Deferred cleanup does not run, so the
// store is closed here.
func (a *app) fail(err error) {
	a.logger.Error("fatal", "error", err)
	a.Close()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
