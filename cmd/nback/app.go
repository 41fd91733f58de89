package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-nback/internal/config"
	"github.com/vovakirdan/tui-nback/internal/core"
	"github.com/vovakirdan/tui-nback/internal/nback"
	"github.com/vovakirdan/tui-nback/internal/speech"
	"github.com/vovakirdan/tui-nback/internal/storage"
)

// app bundles what every command needs: configuration, logging and the
// results store.
type app struct {
	cfg     config.NBackConfig
	source  string // Where cfg came from
	logger  *log.Logger
	logFile io.Closer
	store   *storage.Store // Nil when the database could not be opened
}

// newApp loads configuration, applies global flag overrides, opens the
// log file and the results store.
func newApp() (*app, error) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	applyGlobalFlags(&cfg)

	a := &app{cfg: cfg, source: source}
	a.logger, a.logFile, err = newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("config loaded", "source", source)

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		// Continue without storage - the game still works
		a.logger.Warn("could not open results database", "path", cfg.Storage.Path, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
	} else {
		a.store = store
	}

	return a, nil
}

// applyGlobalFlags lets the persistent flags override the loaded config.
func applyGlobalFlags(cfg *config.NBackConfig) {
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.Logging.File = flagLogFile
	}
}

// newLogger writes to the configured file; the terminal belongs to the UI.
func newLogger(cfg config.LoggingConfig) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var w io.Writer = io.Discard
	var closer io.Closer
	if cfg.File != "" {
		path := config.ExpandPath(cfg.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "nback",
		Level:           level,
	})
	return logger, closer, nil
}

// Close releases the store and the log file.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("closing results database", "error", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// newEngine builds an engine over the app's store and speech backend,
// seeded from rt.
func (a *app) newEngine(settings nback.Settings, rt core.RuntimeConfig) (*nback.Engine, error) {
	speaker, err := speech.Resolve(a.cfg.Speech.Backend)
	if err != nil {
		return nil, err
	}
	a.logger.Info("speech backend", "id", speaker.ID())

	ecfg := nback.DefaultEngineConfig()
	ecfg.Settings = settings
	ecfg.Speaker = speaker
	ecfg.Source = rand.NewSource(sequenceSeed(rt))
	ecfg.FlashDuration = a.cfg.Feedback.FlashDuration()
	ecfg.Logger = a.logger
	if a.store != nil {
		ecfg.Store = a.store
	}
	return nback.NewEngine(ecfg), nil
}

// sequenceSeed returns the configured seed, or a time-based one when unset.
func sequenceSeed(rt core.RuntimeConfig) int64 {
	if rt.Seed != 0 {
		return rt.Seed
	}
	return time.Now().UnixNano()
}

// runtimeConfig reads the terminal size and the global flags.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Seed = flagSeed
	return cfg
}
