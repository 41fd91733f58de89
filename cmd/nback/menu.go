package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-nback/internal/config"
	"github.com/vovakirdan/tui-nback/internal/platform/tui"
)

// settingsKey is the kv key holding the game section chosen in the menu.
const settingsKey = "settings"

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the trainer with the home screen",
	Long: `Start the trainer in interactive menu mode.

The home screen shows the high score and lets you toggle the audio and
visual channels, edit the settings, browse results or start a game.
Settings chosen here are remembered between runs.

Controls:
  Up/Down/j/k  - Navigate
  Left/Right   - Toggle / adjust
  Enter/Space  - Select
  Tab          - Scores
  Q            - Quit

Examples:
  nback menu
  nback menu --theme mono
  nback menu --db ./nback.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	game := a.loadGame()
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

	theme := tui.ThemeByName(flagTheme)

	var scores tui.ScoreSource
	var saver tui.ResultSaver
	if a.store != nil {
		scores, saver = a.store, a.store
	}

	for {
		home, err := tui.RunHome(tui.HomeOptions{
			Settings:  settings,
			HighScore: engine.HighScore(),
			Theme:     theme,
			Config:    rt,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		rt = home.Config

		if home.Choice == tui.HomeQuit {
			return
		}

		// The toggles pick the mode for everything that follows
		if home.Mode != settings.Mode {
			game.Mode = home.Mode.Key()
			if s, err := game.Settings(); err == nil {
				settings = s
				a.saveGame(game)
			} else {
				// e.g. a non-square alphabet cannot be shown as a grid
				a.logger.Warn("mode rejected", "mode", game.Mode, "error", err)
				game.Mode = settings.Mode.Key()
			}
		}

		switch home.Choice {
		case tui.HomeScores:
			goBack, err := tui.RunScoreboard(scores, settings.Mode, theme, rt.ScreenW, rt.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if !goBack {
				return
			}

		case tui.HomeSettings:
			res, err := tui.RunSettings(game, theme, rt)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			rt = res.Config
			if !res.Saved {
				continue
			}
			s, err := res.Game.Settings()
			if err != nil {
				a.logger.Warn("settings rejected", "error", err)
				continue
			}
			game, settings = res.Game, s
			a.saveGame(game)

		case tui.HomeStart:
			res, err := tui.RunGame(engine, tui.GameOptions{
				Settings: settings,
				Store:    saver,
				Logger:   a.logger,
				Theme:    theme,
				Config:   rt,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
				continue
			}
			rt = res.Config
			if res.Quit {
				return
			}
		}
	}
}

// loadGame returns the game section remembered by the menu, or the
// configured one when nothing usable is stored.
func (a *app) loadGame() config.GameSettings {
	game := a.cfg.Game
	if a.store == nil {
		return game
	}

	data, ok, err := a.store.Get(settingsKey)
	if err != nil {
		a.logger.Warn("reading saved settings", "error", err)
		return game
	}
	if !ok {
		return game
	}

	saved, err := config.DecodeGame(data, game)
	if err != nil {
		a.logger.Warn("saved settings unreadable", "error", err)
		return game
	}
	if _, err := saved.Settings(); err != nil {
		a.logger.Warn("saved settings invalid", "error", err)
		return game
	}
	return saved
}

// saveGame remembers the game section for the next menu session.
func (a *app) saveGame(game config.GameSettings) {
	if a.store == nil {
		return
	}
	data, err := config.EncodeGame(game)
	if err != nil {
		a.logger.Warn("encoding settings", "error", err)
		return
	}
	if err := a.store.Set(settingsKey, data); err != nil {
		a.logger.Warn("saving settings", "error", err)
		return
	}
	a.logger.Debug("settings saved", "mode", game.Mode, "n", game.NBack)
}
