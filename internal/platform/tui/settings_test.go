package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-nback/internal/config"
	"github.com/vovakirdan/tui-nback/internal/core"
	"github.com/vovakirdan/tui-nback/internal/nback"
)

func newTestSettings() SettingsModel {
	return NewSettingsModel(config.DefaultConfig().Game, DefaultTheme(), core.DefaultConfig())
}

func settingsUpdate(t *testing.T, m SettingsModel, msgs ...tea.KeyMsg) (SettingsModel, bool) {
	t.Helper()
	quit := false
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		sm, ok := next.(SettingsModel)
		if !ok {
			t.Fatalf("Update() returned %T, expected SettingsModel", next)
		}
		m = sm
		quit = hasQuit(runCmds(cmd))
	}
	return m, quit
}

// moveTo puts the cursor on field.
func moveTo(t *testing.T, m SettingsModel, field settingsField) SettingsModel {
	t.Helper()
	for settingsFields[m.cursor] != field {
		m, _ = settingsUpdate(t, m, keyType(tea.KeyDown))
	}
	return m
}

func TestSettingsAdjust(t *testing.T) {
	right := keyType(tea.KeyRight)
	left := keyType(tea.KeyLeft)

	tests := []struct {
		name  string
		field settingsField
		keys  []tea.KeyMsg
		check func(g config.GameSettings) bool
	}{
		{"n up", fieldNBack, []tea.KeyMsg{right}, func(g config.GameSettings) bool { return g.NBack == 3 }},
		{"n floor", fieldNBack, []tea.KeyMsg{left, left, left}, func(g config.GameSettings) bool { return g.NBack == 1 }},
		{"size", fieldSize, []tea.KeyMsg{right, right}, func(g config.GameSettings) bool { return g.Size == 12 }},
		{"percent", fieldPercent, []tea.KeyMsg{left}, func(g config.GameSettings) bool { return g.PercentMatch == 25 }},
		{"interval", fieldInterval, []tea.KeyMsg{right}, func(g config.GameSettings) bool { return g.IntervalMs == 2250 }},
		{"mode", fieldMode, []tea.KeyMsg{right}, func(g config.GameSettings) bool { return g.Mode == "audio" }},
		{"mode wraps", fieldMode, []tea.KeyMsg{left}, func(g config.GameSettings) bool { return g.Mode == "audiovisual" }},
		{"preset", fieldPreset, []tea.KeyMsg{right}, func(g config.GameSettings) bool { return g.NBack == 3 && g.IntervalMs == 1500 }},
		{"preset back", fieldPreset, []tea.KeyMsg{left}, func(g config.GameSettings) bool { return g.NBack == 1 && g.IntervalMs == 2500 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := moveTo(t, newTestSettings(), tt.field)
			m, _ = settingsUpdate(t, m, tt.keys...)
			if !tt.check(m.Game()) {
				t.Errorf("Game() = %+v after adjusting", m.Game())
			}
		})
	}
}

func TestSettingsCustomPreset(t *testing.T) {
	m := moveTo(t, newTestSettings(), fieldInterval)
	m, _ = settingsUpdate(t, m, keyType(tea.KeyRight))
	if got := m.fieldValue(fieldPreset); got != "custom" {
		t.Errorf("preset = %q, expected custom", got)
	}
}

func TestSettingsInvalidBlocksSave(t *testing.T) {
	m := moveTo(t, newTestSettings(), fieldCombinations)
	m, _ = settingsUpdate(t, m, keyType(tea.KeyRight)) // 10 is not a perfect square

	var cfgErr *nback.ConfigurationError
	if !errors.As(m.Err(), &cfgErr) || cfgErr.Field != "combinations" {
		t.Fatalf("Err() = %v, expected a combinations error", m.Err())
	}

	m = moveTo(t, m, fieldSave)
	m, quit := settingsUpdate(t, m, keyType(tea.KeyEnter))
	if quit || m.Saved() {
		t.Error("Save succeeded with invalid settings")
	}

	// Audio mode has no grid, so 10 symbols is fine there
	m = settingsSetField(t, m, fieldMode, keyType(tea.KeyRight))
	if m.Err() != nil {
		t.Errorf("Err() = %v, expected nil for audio mode", m.Err())
	}
}

func settingsSetField(t *testing.T, m SettingsModel, field settingsField, keys ...tea.KeyMsg) SettingsModel {
	t.Helper()
	for settingsFields[m.cursor] != field {
		m, _ = settingsUpdate(t, m, keyType(tea.KeyUp))
	}
	m, _ = settingsUpdate(t, m, keys...)
	return m
}

func TestSettingsSaveAndCancel(t *testing.T) {
	t.Run("save", func(t *testing.T) {
		m := moveTo(t, newTestSettings(), fieldNBack)
		m, _ = settingsUpdate(t, m, keyType(tea.KeyRight))
		m = moveTo(t, m, fieldSave)
		m, quit := settingsUpdate(t, m, keyType(tea.KeyEnter))
		if !quit || !m.Saved() {
			t.Fatal("Save did not finish the screen")
		}
		if m.Game().NBack != 3 {
			t.Errorf("NBack = %d, expected 3", m.Game().NBack)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		m := moveTo(t, newTestSettings(), fieldCancel)
		m, quit := settingsUpdate(t, m, keyType(tea.KeyEnter))
		if !quit || m.Saved() {
			t.Error("Cancel should exit without saving")
		}
	})

	t.Run("esc", func(t *testing.T) {
		m, quit := settingsUpdate(t, newTestSettings(), keyType(tea.KeyEsc))
		if !quit || m.Saved() {
			t.Error("Esc should exit without saving")
		}
	})
}
