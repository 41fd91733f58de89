package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-nback/internal/nback"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func result(mode string, n, score int) Result {
	return Result{
		Mode:         mode,
		NBack:        n,
		Size:         10,
		Combinations: 9,
		PercentMatch: 30,
		IntervalMs:   2000,
		Score:        score,
		Hits:         score,
		Misses:       1,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.nback/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".nback", "test.db")); err != nil {
		t.Errorf("Database was not created under HOME: %v", err)
	}
}

func TestStoreKV(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok %v, err %v; expected not found", ok, err)
	}

	if err := store.Set("theme", "dark"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set("theme", "light"); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}

	value, ok, err := store.Get("theme")
	if err != nil || !ok || value != "light" {
		t.Errorf("Get(theme) = %q, %v, %v; expected light", value, ok, err)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.ReadHighScore()
	if err != nil {
		t.Fatalf("ReadHighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty store, got %d", high)
	}

	if err := store.WriteHighScore(5); err != nil {
		t.Fatalf("WriteHighScore() failed: %v", err)
	}
	if err := store.WriteHighScore(7); err != nil {
		t.Fatalf("WriteHighScore() failed: %v", err)
	}

	high, err = store.ReadHighScore()
	if err != nil {
		t.Fatalf("ReadHighScore() failed: %v", err)
	}
	if high != 7 {
		t.Errorf("Expected high score of 7, got %d", high)
	}
}

func TestStoreHighScoreSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.WriteHighScore(12); err != nil {
		t.Fatalf("WriteHighScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if high, err := store.ReadHighScore(); err != nil || high != 12 {
		t.Errorf("ReadHighScore() = %d, %v; expected 12", high, err)
	}
}

func TestStoreCorruptHighScore(t *testing.T) {
	store := openTestStore(t)
	if err := store.Set(HighScoreKey, "lots"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, err := store.ReadHighScore(); err == nil {
		t.Error("ReadHighScore() should fail on a non-numeric value")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []Result{
		result("visual", 2, 3),
		result("visual", 2, 1),
		result("visual", 3, 3),
		result("audio", 2, 6),
	} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	results, err := store.TopResults("visual", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 visual results, got %d", len(results))
	}

	// Ties on score rank the higher N first
	if results[0].Score != 3 || results[0].NBack != 3 {
		t.Errorf("results[0] = %+v, expected score 3 at N=3", results[0])
	}
	if results[1].Score != 3 || results[1].NBack != 2 {
		t.Errorf("results[1] = %+v, expected score 3 at N=2", results[1])
	}
	if results[2].Score != 1 {
		t.Errorf("results[2].Score = %d, expected 1", results[2].Score)
	}

	r := results[2]
	if r.Mode != "visual" || r.Size != 10 || r.Combinations != 9 || r.PercentMatch != 30 || r.IntervalMs != 2000 || r.Misses != 1 {
		t.Errorf("round-tripped result = %+v", r)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}

	audio, err := store.TopResults("audio", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(audio) != 1 {
		t.Errorf("Expected 1 audio result, got %d", len(audio))
	}
}

func TestStoreTopResultsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveResult(result("visual", 2, i+1))
	}

	results, err := store.TopResults("visual", 3)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results with limit, got %d", len(results))
	}
	if results[0].Score != 5 || results[1].Score != 4 || results[2].Score != 3 {
		t.Errorf("Results not in expected order: %v", results)
	}
}

func TestStoreRecentResults(t *testing.T) {
	store := openTestStore(t)

	var last int64
	for i, mode := range []string{"visual", "audio", "audiovisual"} {
		id, err := store.SaveResult(result(mode, 2, i))
		if err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
		last = id
	}

	recent, err := store.RecentResults(2)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 recent results, got %d", len(recent))
	}
	if recent[0].ID != last || recent[0].Mode != "audiovisual" {
		t.Errorf("recent[0] = %+v, expected the last insert", recent[0])
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(result("visual", 2, 1))
	store.SaveResult(result("visual", 2, 2))
	store.SaveResult(result("audio", 2, 3))
	store.WriteHighScore(3)

	if err := store.ClearResults("visual"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	visual, _ := store.TopResults("visual", 10)
	if len(visual) != 0 {
		t.Errorf("Expected 0 visual results after clear, got %d", len(visual))
	}
	audio, _ := store.TopResults("audio", 10)
	if len(audio) != 1 {
		t.Error("Audio results should not be affected by clearing visual")
	}

	if err := store.ClearResults(""); err != nil {
		t.Fatalf("ClearResults(all) failed: %v", err)
	}
	if recent, _ := store.RecentResults(10); len(recent) != 0 {
		t.Errorf("Expected no results after clearing all, got %d", len(recent))
	}
	if high, _ := store.ReadHighScore(); high != 3 {
		t.Errorf("ClearResults() touched the high score: %d", high)
	}
}

func TestStoreModeStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.ModeStats("visual")
	if err != nil {
		t.Fatalf("ModeStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() || empty.Accuracy() != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveResult(Result{Mode: "visual", NBack: 2, Size: 10, Combinations: 9, IntervalMs: 2000, Score: 2, Hits: 2, Misses: 2})
	store.SaveResult(Result{Mode: "visual", NBack: 4, Size: 10, Combinations: 9, IntervalMs: 2000, Score: 4, Hits: 4, Misses: 0})
	store.SaveResult(Result{Mode: "audio", NBack: 5, Size: 10, Combinations: 9, IntervalMs: 2000, Score: 9, Hits: 9})

	stats, err := store.ModeStats("visual")
	if err != nil {
		t.Fatalf("ModeStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.BestScore != 4 || stats.BestNBack != 4 {
		t.Errorf("stats = %+v, expected 2 games, best 4 at N=4", stats)
	}
	if stats.AvgScore != 3 {
		t.Errorf("AvgScore = %v, expected 3", stats.AvgScore)
	}
	if got := stats.Accuracy(); got < 0.749 || got > 0.751 {
		t.Errorf("Accuracy() = %v, expected 0.75", got)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestNewResult(t *testing.T) {
	settings := nback.Settings{
		Mode:          nback.ModeAudioVisual,
		Size:          20,
		Combinations:  16,
		PercentMatch:  25,
		NBack:         3,
		EventInterval: 1500 * time.Millisecond,
	}
	st := nback.State{Score: 4, Hits: 4, Misses: 2}

	r := NewResult(settings, st)
	if r.Mode != "audiovisual" || r.NBack != 3 || r.Size != 20 || r.Combinations != 16 || r.PercentMatch != 25 || r.IntervalMs != 1500 {
		t.Errorf("NewResult() settings = %+v", r)
	}
	if r.Score != 4 || r.Hits != 4 || r.Misses != 2 {
		t.Errorf("NewResult() score = %+v", r)
	}
}

func TestStoreConcurrentWrites(t *testing.T) {
	store := openTestStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			errs <- store.WriteHighScore(i)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := store.SaveResult(result("visual", 2, i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent write failed: %v", err)
		}
	}
	if recent, _ := store.RecentResults(50); len(recent) != 20 {
		t.Errorf("Expected 20 results, got %d", len(recent))
	}
}
