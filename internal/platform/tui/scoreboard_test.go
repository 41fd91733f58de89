package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-nback/internal/nback"
	"github.com/vovakirdan/tui-nback/internal/storage"
)

type fakeScores struct {
	results map[string][]storage.Result
	cleared []string
	err     error
}

func (f *fakeScores) TopResults(mode string, limit int) ([]storage.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results[mode], nil
}

func (f *fakeScores) ModeStats(mode string) (*storage.ModeStats, error) {
	st := &storage.ModeStats{Mode: mode}
	for _, r := range f.results[mode] {
		st.GamesCount++
		st.TotalHits += r.Hits
		st.TotalMisses += r.Misses
		if r.Score > st.BestScore {
			st.BestScore = r.Score
		}
	}
	return st, nil
}

func (f *fakeScores) ClearResults(mode string) error {
	f.cleared = append(f.cleared, mode)
	delete(f.results, mode)
	return nil
}

func newFakeScores() *fakeScores {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeScores{results: map[string][]storage.Result{
		"visual": {
			{Mode: "visual", NBack: 3, Score: 5, Hits: 5, Misses: 1, CreatedAt: at},
			{Mode: "visual", NBack: 2, Score: 2, Hits: 2, Misses: 0, CreatedAt: at},
		},
		"audio": {
			{Mode: "audio", NBack: 2, Score: 4, Hits: 4, Misses: 4, CreatedAt: at},
		},
	}}
}

func scoreUpdate(t *testing.T, m ScoreboardModel, msgs ...tea.KeyMsg) (ScoreboardModel, bool) {
	t.Helper()
	quit := false
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		sm, ok := next.(ScoreboardModel)
		if !ok {
			t.Fatalf("Update() returned %T, expected ScoreboardModel", next)
		}
		m = sm
		quit = cmd != nil && hasQuit(runCmds(cmd))
	}
	return m, quit
}

func TestScoreboardLoadsMode(t *testing.T) {
	m := NewScoreboardModel(newFakeScores(), nback.ModeVisual, DefaultTheme(), 80, 24)

	if len(m.results) != 2 {
		t.Fatalf("results = %d, expected 2", len(m.results))
	}
	if rows := m.table.Rows(); len(rows) != 2 || rows[0][1] != "5" || rows[0][3] != "5/1" {
		t.Errorf("rows = %v", rows)
	}
	if m.stats == nil || m.stats.GamesCount != 2 {
		t.Errorf("stats = %+v, expected 2 games", m.stats)
	}
}

func TestScoreboardSwitchesModes(t *testing.T) {
	m := NewScoreboardModel(newFakeScores(), nback.ModeVisual, DefaultTheme(), 80, 24)

	m, _ = scoreUpdate(t, m, keyType(tea.KeyTab))
	if m.mode() != nback.ModeAudio || len(m.results) != 1 {
		t.Errorf("after tab: mode %v with %d results, expected audio with 1", m.mode(), len(m.results))
	}

	m, _ = scoreUpdate(t, m, keyType(tea.KeyTab))
	if m.mode() != nback.ModeAudioVisual || len(m.results) != 0 {
		t.Errorf("after tab: mode %v with %d results, expected audiovisual with 0", m.mode(), len(m.results))
	}
	if !strings.Contains(m.View(), "No results recorded yet") {
		t.Error("View() does not show the empty message")
	}

	m, _ = scoreUpdate(t, m, keyType(tea.KeyRight))
	if m.mode() != nback.ModeVisual {
		t.Errorf("mode tabs did not wrap, got %v", m.mode())
	}

	m, _ = scoreUpdate(t, m, keyType(tea.KeyLeft))
	if m.mode() != nback.ModeAudioVisual {
		t.Errorf("left did not wrap back, got %v", m.mode())
	}
}

func TestScoreboardClearNeedsTwoPresses(t *testing.T) {
	src := newFakeScores()
	m := NewScoreboardModel(src, nback.ModeVisual, DefaultTheme(), 80, 24)

	m, _ = scoreUpdate(t, m, keyRunes("x"), keyType(tea.KeyDown))
	if len(src.cleared) != 0 {
		t.Fatalf("cleared %v after an interrupted confirmation", src.cleared)
	}

	m, _ = scoreUpdate(t, m, keyRunes("x"), keyRunes("x"))
	if len(src.cleared) != 1 || src.cleared[0] != "visual" {
		t.Fatalf("cleared = %v, expected [visual]", src.cleared)
	}
	if len(m.results) != 0 {
		t.Errorf("results = %d after clearing, expected 0", len(m.results))
	}
}

func TestScoreboardLoadError(t *testing.T) {
	src := newFakeScores()
	src.err = errors.New("database is locked")
	m := NewScoreboardModel(src, nback.ModeVisual, DefaultTheme(), 80, 24)

	if !strings.Contains(m.View(), "database is locked") {
		t.Error("View() does not show the load error")
	}
}

func TestScoreboardExit(t *testing.T) {
	m, quit := scoreUpdate(t, NewScoreboardModel(newFakeScores(), nback.ModeVisual, DefaultTheme(), 80, 24), keyType(tea.KeyEsc))
	if !quit || !m.IsGoingBack() || m.IsQuitting() {
		t.Errorf("esc: quit=%v back=%v quitting=%v", quit, m.IsGoingBack(), m.IsQuitting())
	}

	m, quit = scoreUpdate(t, NewScoreboardModel(newFakeScores(), nback.ModeVisual, DefaultTheme(), 80, 24), keyRunes("q"))
	if !quit || !m.IsQuitting() {
		t.Errorf("q: quit=%v quitting=%v", quit, m.IsQuitting())
	}
}

func TestScoreboardWithoutSource(t *testing.T) {
	m := NewScoreboardModel(nil, nback.ModeAudio, DefaultTheme(), 80, 24)
	if m.mode() != nback.ModeAudio {
		t.Errorf("mode = %v, expected audio", m.mode())
	}
	if !strings.Contains(m.View(), "No games played") {
		t.Error("View() does not show the no-games line")
	}
}
