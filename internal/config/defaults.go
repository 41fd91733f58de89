package config

import (
	_ "embed"
)

//go:embed defaults/nback.yaml
var defaultNBackYAML []byte

// DefaultConfig returns the hardcoded configuration used when no file and
// no embedded default can be read.
func DefaultConfig() NBackConfig {
	return NBackConfig{
		Game: GameSettings{
			Mode:         "visual",
			NBack:        2,
			Size:         10,
			Combinations: 9,
			PercentMatch: 30,
			IntervalMs:   2000,
		},
		Feedback: FeedbackConfig{
			FlashMs: 200,
		},
		Speech: SpeechConfig{
			Backend: "auto",
		},
		Storage: StorageConfig{
			Path: "~/.nback/nback.db",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "~/.nback/nback.log",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultNBackYAML
}
