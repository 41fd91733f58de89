// Package config provides YAML and TOML configuration loading and the
// difficulty presets for the N-back trainer.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-nback/internal/nback"
)

// NBackConfig contains all configuration for the trainer.
type NBackConfig struct {
	Game     GameSettings   `yaml:"game" toml:"game"`
	Feedback FeedbackConfig `yaml:"feedback" toml:"feedback"`
	Speech   SpeechConfig   `yaml:"speech" toml:"speech"`
	Storage  StorageConfig  `yaml:"storage" toml:"storage"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// GameSettings defines the parameters of one game.
type GameSettings struct {
	Mode         string `yaml:"mode" toml:"mode"` // "visual", "audio" or "audiovisual"
	NBack        int    `yaml:"n_back" toml:"n_back"`
	Size         int    `yaml:"size" toml:"size"`                   // Stimuli per game
	Combinations int    `yaml:"combinations" toml:"combinations"`   // Alphabet size, a perfect square for the grid
	PercentMatch int    `yaml:"percent_match" toml:"percent_match"` // 0-100
	IntervalMs   int    `yaml:"interval_ms" toml:"interval_ms"`     // Time per stimulus
}

// FeedbackConfig defines on-screen feedback.
type FeedbackConfig struct {
	FlashMs int `yaml:"flash_ms" toml:"flash_ms"` // Red flash length after a miss
}

// SpeechConfig selects how letters are voiced.
type SpeechConfig struct {
	Backend string `yaml:"backend" toml:"backend"` // Registered backend name or "auto"
}

// StorageConfig defines where scores are kept.
type StorageConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// LoggingConfig defines the log file. The terminal belongs to the UI, so
// logs never go to stderr while a screen is running.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

// Settings converts the game section to engine settings and validates them.
func (g GameSettings) Settings() (nback.Settings, error) {
	mode, err := nback.ParseMode(g.Mode)
	if err != nil {
		return nback.Settings{}, fmt.Errorf("config: game.mode: %w", err)
	}

	s := nback.Settings{
		Mode:          mode,
		Size:          g.Size,
		Combinations:  g.Combinations,
		PercentMatch:  g.PercentMatch,
		NBack:         g.NBack,
		EventInterval: time.Duration(g.IntervalMs) * time.Millisecond,
	}
	if err := s.Validate(); err != nil {
		return nback.Settings{}, err
	}
	return s, nil
}

// FromSettings fills the game section from engine settings.
func (g *GameSettings) FromSettings(s nback.Settings) {
	g.Mode = s.Mode.Key()
	g.NBack = s.NBack
	g.Size = s.Size
	g.Combinations = s.Combinations
	g.PercentMatch = s.PercentMatch
	g.IntervalMs = int(s.EventInterval / time.Millisecond)
}

// FlashDuration returns the flash length, falling back to the engine default.
func (f FeedbackConfig) FlashDuration() time.Duration {
	if f.FlashMs <= 0 {
		return nback.DefaultFlashDuration
	}
	return time.Duration(f.FlashMs) * time.Millisecond
}
