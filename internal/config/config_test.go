package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-nback/internal/nback"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// isolate points HOME and the working directory at empty temp dirs.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg, err := Decode(DefaultYAML(), FormatYAML)
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("embedded default = %+v, expected %+v", cfg, DefaultConfig())
	}
}

func TestDefaultSettings(t *testing.T) {
	s, err := DefaultConfig().Game.Settings()
	if err != nil {
		t.Fatalf("Settings() failed: %v", err)
	}
	if s != nback.DefaultSettings() {
		t.Errorf("Settings() = %+v, expected %+v", s, nback.DefaultSettings())
	}
}

func TestLoadSearchOrder(t *testing.T) {
	t.Run("embedded default", func(t *testing.T) {
		isolate(t)
		cfg, source, err := Load("")
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if source != "embedded" {
			t.Errorf("source = %q, expected embedded", source)
		}
		if cfg != DefaultConfig() {
			t.Errorf("cfg = %+v, expected defaults", cfg)
		}
	})

	t.Run("local configs directory", func(t *testing.T) {
		isolate(t)
		writeFile(t, filepath.Join("configs", "nback.yaml"), "game:\n  n_back: 4\n")
		cfg, source, err := Load("")
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if source != filepath.Join("configs", "nback.yaml") {
			t.Errorf("source = %q", source)
		}
		if cfg.Game.NBack != 4 {
			t.Errorf("NBack = %d, expected 4", cfg.Game.NBack)
		}
	})

	t.Run("user yaml beats local", func(t *testing.T) {
		home, _ := isolate(t)
		writeFile(t, filepath.Join("configs", "nback.yaml"), "game:\n  n_back: 4\n")
		writeFile(t, filepath.Join(home, ".nback", "configs", "nback.yaml"), "game:\n  n_back: 5\n")
		cfg, _, err := Load("")
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.Game.NBack != 5 {
			t.Errorf("NBack = %d, expected 5", cfg.Game.NBack)
		}
	})

	t.Run("user toml", func(t *testing.T) {
		home, _ := isolate(t)
		writeFile(t, filepath.Join(home, ".nback", "configs", "nback.toml"), "[game]\nn_back = 3\nmode = \"audio\"\n")
		cfg, _, err := Load("")
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.Game.NBack != 3 || cfg.Game.Mode != "audio" {
			t.Errorf("Game = %+v, expected 3-back audio", cfg.Game)
		}
	})

	t.Run("broken user file falls through", func(t *testing.T) {
		home, _ := isolate(t)
		writeFile(t, filepath.Join(home, ".nback", "configs", "nback.yaml"), "game: [not a map\n")
		_, source, err := Load("")
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if source != "embedded" {
			t.Errorf("source = %q, expected embedded", source)
		}
	})

	t.Run("custom path wins", func(t *testing.T) {
		home, work := isolate(t)
		writeFile(t, filepath.Join(home, ".nback", "configs", "nback.yaml"), "game:\n  n_back: 5\n")
		custom := filepath.Join(work, "mine.toml")
		writeFile(t, custom, "[game]\nsize = 20\n")
		cfg, source, err := Load(custom)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if source != custom {
			t.Errorf("source = %q, expected %q", source, custom)
		}
		if cfg.Game.Size != 20 || cfg.Game.NBack != 2 {
			t.Errorf("Game = %+v, expected size 20 on top of defaults", cfg.Game)
		}
	})
}

func TestLoadCustomPathErrors(t *testing.T) {
	isolate(t)

	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with a missing custom file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, bad, "[game\n")
	if _, _, err := Load(bad); err == nil {
		t.Error("Load() with invalid TOML should fail")
	}
}

func TestDecodeOverlay(t *testing.T) {
	yamlCfg, err := Decode([]byte("feedback:\n  flash_ms: 350\n"), FormatYAML)
	if err != nil {
		t.Fatalf("Decode(yaml) failed: %v", err)
	}
	tomlCfg, err := Decode([]byte("[feedback]\nflash_ms = 350\n"), FormatTOML)
	if err != nil {
		t.Fatalf("Decode(toml) failed: %v", err)
	}

	for name, cfg := range map[string]NBackConfig{"yaml": yamlCfg, "toml": tomlCfg} {
		if cfg.Feedback.FlashDuration() != 350*time.Millisecond {
			t.Errorf("%s: FlashDuration() = %v, expected 350ms", name, cfg.Feedback.FlashDuration())
		}
		if cfg.Game != DefaultConfig().Game {
			t.Errorf("%s: Game = %+v, expected defaults", name, cfg.Game)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Game.Mode = "audiovisual"
	cfg.Speech.Backend = "espeak"

	for _, format := range []Format{FormatYAML, FormatTOML} {
		data, err := Encode(cfg, format)
		if err != nil {
			t.Fatalf("Encode(%s) failed: %v", format, err)
		}
		back, err := Decode(data, format)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", format, err)
		}
		if back != cfg {
			t.Errorf("%s: decoded %+v, expected %+v", format, back, cfg)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"nback.toml", FormatTOML},
		{"NBACK.TOML", FormatTOML},
		{"nback.yaml", FormatYAML},
		{"nback.yml", FormatYAML},
		{"nback", FormatYAML},
	}

	for _, tc := range tests {
		if got := FormatForPath(tc.path); got != tc.expected {
			t.Errorf("FormatForPath(%q) = %q, expected %q", tc.path, got, tc.expected)
		}
	}
}

func TestGameSettingsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*GameSettings)
	}{
		{"unknown mode", func(g *GameSettings) { g.Mode = "smell" }},
		{"n too large", func(g *GameSettings) { g.NBack = 10 }},
		{"zero interval", func(g *GameSettings) { g.IntervalMs = 0 }},
		{"non-square grid", func(g *GameSettings) { g.Combinations = 10 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := DefaultConfig().Game
			tc.modify(&g)
			if _, err := g.Settings(); err == nil {
				t.Error("Settings() should fail")
			}
		})
	}

	g := DefaultConfig().Game
	g.NBack = 0
	_, err := g.Settings()
	var cfgErr *nback.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "n_back" {
		t.Errorf("Settings() = %v, expected n_back ConfigurationError", err)
	}
}

func TestFromSettings(t *testing.T) {
	s := nback.Settings{
		Mode:          nback.ModeAudio,
		Size:          15,
		Combinations:  8,
		PercentMatch:  40,
		NBack:         3,
		EventInterval: 1500 * time.Millisecond,
	}

	var g GameSettings
	g.FromSettings(s)
	back, err := g.Settings()
	if err != nil {
		t.Fatalf("Settings() failed: %v", err)
	}
	if back != s {
		t.Errorf("Settings() = %+v, expected %+v", back, s)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		path     string
		expected string
	}{
		{"~/.nback/nback.db", filepath.Join(home, ".nback", "nback.db")},
		{"~", home},
		{"/tmp/x.db", "/tmp/x.db"},
		{"~other/x", "~other/x"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := ExpandPath(tc.path); got != tc.expected {
			t.Errorf("ExpandPath(%q) = %q, expected %q", tc.path, got, tc.expected)
		}
	}
}

func TestEncodeDecodeGame(t *testing.T) {
	g := DefaultConfig().Game
	g.Mode = "audiovisual"
	g.NBack = 4
	g.IntervalMs = 1750

	data, err := EncodeGame(g)
	if err != nil {
		t.Fatalf("EncodeGame() failed: %v", err)
	}
	back, err := DecodeGame(data, DefaultConfig().Game)
	if err != nil {
		t.Fatalf("DecodeGame() failed: %v", err)
	}
	if back != g {
		t.Errorf("DecodeGame() = %+v, expected %+v", back, g)
	}

	// Missing keys keep the base values
	partial, err := DecodeGame("n_back: 3\n", DefaultConfig().Game)
	if err != nil {
		t.Fatalf("DecodeGame(partial) failed: %v", err)
	}
	if partial.NBack != 3 || partial.Size != DefaultConfig().Game.Size {
		t.Errorf("DecodeGame(partial) = %+v", partial)
	}

	if _, err := DecodeGame("n_back: [", DefaultConfig().Game); err == nil {
		t.Error("DecodeGame() with broken YAML should fail")
	}
}
