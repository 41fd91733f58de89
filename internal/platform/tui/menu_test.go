package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-nback/internal/core"
	"github.com/vovakirdan/tui-nback/internal/nback"
)

func newTestHome(mode nback.Mode) HomeModel {
	s := nback.DefaultSettings()
	s.Mode = mode
	return NewHomeModel(HomeOptions{
		Settings:  s,
		HighScore: 7,
		Theme:     DefaultTheme(),
		Config:    core.DefaultConfig(),
	})
}

func homeUpdate(t *testing.T, m HomeModel, msgs ...tea.KeyMsg) (HomeModel, bool) {
	t.Helper()
	quit := false
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		hm, ok := next.(HomeModel)
		if !ok {
			t.Fatalf("Update() returned %T, expected HomeModel", next)
		}
		m = hm
		quit = hasQuit(runCmds(cmd))
	}
	return m, quit
}

func TestHomeTogglesStartFromMode(t *testing.T) {
	tests := []struct {
		mode   nback.Mode
		audio  bool
		visual bool
	}{
		{nback.ModeVisual, false, true},
		{nback.ModeAudio, true, false},
		{nback.ModeAudioVisual, true, true},
	}

	for _, tt := range tests {
		m := newTestHome(tt.mode)
		if m.audio != tt.audio || m.visual != tt.visual {
			t.Errorf("%v: toggles = (%v, %v), expected (%v, %v)", tt.mode, m.audio, m.visual, tt.audio, tt.visual)
		}
		if m.Mode() != tt.mode {
			t.Errorf("Mode() = %v, expected %v", m.Mode(), tt.mode)
		}
	}
}

func TestHomeToggleAudio(t *testing.T) {
	m := newTestHome(nback.ModeVisual)

	// Down to the audio toggle, switch it on
	m, _ = homeUpdate(t, m, keyType(tea.KeyDown), keyType(tea.KeyEnter))
	if m.Mode() != nback.ModeAudioVisual {
		t.Fatalf("Mode() = %v, expected %v", m.Mode(), nback.ModeAudioVisual)
	}

	// Down to visual, switch it off with right
	m, _ = homeUpdate(t, m, keyType(tea.KeyDown), keyType(tea.KeyRight))
	if m.Mode() != nback.ModeAudio {
		t.Errorf("Mode() = %v, expected %v", m.Mode(), nback.ModeAudio)
	}

	// Both off falls back to visual
	m, _ = homeUpdate(t, m, keyType(tea.KeyUp), keyType(tea.KeyLeft))
	if m.Mode() != nback.ModeVisual {
		t.Errorf("Mode() = %v, expected %v", m.Mode(), nback.ModeVisual)
	}
}

func TestHomeChoices(t *testing.T) {
	down := keyType(tea.KeyDown)
	enter := keyType(tea.KeyEnter)

	tests := []struct {
		name   string
		keys   []tea.KeyMsg
		expect HomeChoice
	}{
		{"start", []tea.KeyMsg{enter}, HomeStart},
		{"settings", []tea.KeyMsg{down, down, down, enter}, HomeSettings},
		{"scores", []tea.KeyMsg{down, down, down, down, enter}, HomeScores},
		{"quit item", []tea.KeyMsg{down, down, down, down, down, enter}, HomeQuit},
		{"tab", []tea.KeyMsg{keyType(tea.KeyTab)}, HomeScores},
		{"q", []tea.KeyMsg{keyRunes("q")}, HomeQuit},
		{"esc", []tea.KeyMsg{keyType(tea.KeyEsc)}, HomeQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, quit := homeUpdate(t, newTestHome(nback.ModeVisual), tt.keys...)
			if !quit {
				t.Error("program did not exit")
			}
			if m.Choice() != tt.expect {
				t.Errorf("Choice() = %v, expected %v", m.Choice(), tt.expect)
			}
		})
	}
}

func TestHomeCursorBounds(t *testing.T) {
	m := newTestHome(nback.ModeVisual)
	m, _ = homeUpdate(t, m, keyType(tea.KeyUp))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, expected 0", m.cursor)
	}

	for i := 0; i < len(homeItems)+3; i++ {
		m, _ = homeUpdate(t, m, keyType(tea.KeyDown))
	}
	if m.cursor != len(homeItems)-1 {
		t.Errorf("cursor = %d, expected %d", m.cursor, len(homeItems)-1)
	}
}

func TestHomeView(t *testing.T) {
	view := newTestHome(nback.ModeVisual).View()
	for _, want := range []string{"High score", "7", "Start", "Audio", "Visual", "Settings", "Scores", "2-back"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
