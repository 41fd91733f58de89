package nback

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Mode selects which stimulus channels a game presents.
type Mode int

const (
	ModeVisual      Mode = iota // Grid position only
	ModeAudio                   // Spoken letter only
	ModeAudioVisual             // Both, from two independent sequences
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeVisual:
		return "Visual"
	case ModeAudio:
		return "Audio"
	case ModeAudioVisual:
		return "Audio-Visual"
	default:
		return "Unknown"
	}
}

// Key returns the stable identifier used in config files and storage.
func (m Mode) Key() string {
	switch m {
	case ModeAudio:
		return "audio"
	case ModeAudioVisual:
		return "audiovisual"
	default:
		return "visual"
	}
}

// HasVisual reports whether the mode shows grid stimuli.
func (m Mode) HasVisual() bool {
	return m == ModeVisual || m == ModeAudioVisual
}

// HasAudio reports whether the mode speaks letter stimuli.
func (m Mode) HasAudio() bool {
	return m == ModeAudio || m == ModeAudioVisual
}

// Modes lists all modes in display order.
func Modes() []Mode {
	return []Mode{ModeVisual, ModeAudio, ModeAudioVisual}
}

// ParseMode maps a mode key (or common alias) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "visual", "v":
		return ModeVisual, nil
	case "audio", "a":
		return ModeAudio, nil
	case "audiovisual", "audio-visual", "av", "dual":
		return ModeAudioVisual, nil
	}
	return ModeVisual, fmt.Errorf("nback: unknown mode %q", s)
}

// ModeFromToggles mirrors the home screen toggles: both selected plays
// Audio-Visual, audio alone plays Audio, anything else plays Visual.
func ModeFromToggles(audio, visual bool) Mode {
	switch {
	case audio && visual:
		return ModeAudioVisual
	case audio:
		return ModeAudio
	default:
		return ModeVisual
	}
}

// Settings is the configuration of one game. It is copied into the session
// at start and stays immutable for that session.
type Settings struct {
	Mode          Mode
	Size          int           // Stimuli per game
	Combinations  int           // Alphabet size; a perfect square for visual modes
	PercentMatch  int           // Target share of eligible positions that match
	NBack         int           // Lag distance
	EventInterval time.Duration // How long each stimulus stays current
}

// DefaultSettings returns the stock game: 2-back visual, 10 stimuli on a
// 3x3 grid, 30% matches, 2 seconds per stimulus.
func DefaultSettings() Settings {
	return Settings{
		Mode:          ModeVisual,
		Size:          10,
		Combinations:  9,
		PercentMatch:  30,
		NBack:         2,
		EventInterval: 2 * time.Second,
	}
}

// Validate checks that the settings describe a playable game.
func (s Settings) Validate() error {
	if s.Size < 1 {
		return configErr("size", s.Size, "must be positive")
	}
	if err := ValidateSequenceParams(s.Size, s.Combinations, s.PercentMatch, s.NBack); err != nil {
		return err
	}
	if s.EventInterval <= 0 {
		return configErr("event_interval_ms", int(s.EventInterval/time.Millisecond), "must be positive")
	}
	if s.Mode.HasVisual() && s.GridSide() == 0 {
		return configErr("combinations", s.Combinations, "must be a perfect square for the grid")
	}
	return nil
}

// GridSide returns the side of the square grid for the alphabet, or 0 when
// the alphabet is not a perfect square.
func (s Settings) GridSide() int {
	if s.Combinations < 1 {
		return 0
	}
	side := int(math.Round(math.Sqrt(float64(s.Combinations))))
	if side*side != s.Combinations {
		return 0
	}
	return side
}

// Letter maps a stimulus value to its spoken letter: 1 -> "A", 26 -> "Z",
// 27 -> "A". Values below 1 map to the empty string.
func Letter(v int) string {
	if v < 1 {
		return ""
	}
	return string(rune('A' + (v-1)%26))
}
