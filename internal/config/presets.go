package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level. Presets are fixed
// parameter sets; nothing adapts during play.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// presetParams holds the values a preset overrides.
type presetParams struct {
	NBack      int
	IntervalMs int
}

var presets = map[DifficultyPreset]presetParams{
	DifficultyEasy:   {NBack: 1, IntervalMs: 2500},
	DifficultyNormal: {NBack: 2, IntervalMs: 2000},
	DifficultyHard:   {NBack: 3, IntervalMs: 1500},
}

// Presets lists the presets from easiest to hardest.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParsePreset maps a name to a preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := presets[p]; !ok {
		return "", fmt.Errorf("config: unknown preset %q", name)
	}
	return p, nil
}

// Describe returns a short summary such as "3-back, 1.5s".
func (p DifficultyPreset) Describe() string {
	params, ok := presets[p]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d-back, %.1fs", params.NBack, float64(params.IntervalMs)/1000)
}

// ApplyPreset sets N and the interval for a preset, leaving the rest of
// the game section untouched.
func ApplyPreset(g *GameSettings, preset DifficultyPreset) error {
	params, ok := presets[preset]
	if !ok {
		return fmt.Errorf("config: unknown preset %q", preset)
	}
	g.NBack = params.NBack
	g.IntervalMs = params.IntervalMs
	return nil
}

// MatchPreset reports which preset, if any, the game section currently
// corresponds to.
func MatchPreset(g GameSettings) (DifficultyPreset, bool) {
	for _, p := range Presets() {
		params := presets[p]
		if g.NBack == params.NBack && g.IntervalMs == params.IntervalMs {
			return p, true
		}
	}
	return "", false
}
