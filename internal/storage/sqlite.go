// Package storage provides SQLite-based persistence for the high score and
// the history of finished games. Uses the pure-Go modernc.org/sqlite driver
// to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-nback/internal/nback"
)

// HighScoreKey is the kv key holding the best score.
const HighScoreKey = "highscore"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Ensure Store can back the engine's high score.
var _ nback.HighScoreStore = (*Store)(nil)

// Result is one finished game.
type Result struct {
	ID           int64
	Mode         string // nback.Mode key
	NBack        int
	Size         int
	Combinations int
	PercentMatch int
	IntervalMs   int
	Score        int
	Hits         int
	Misses       int
	CreatedAt    time.Time
}

// NewResult builds a result row from the settings a game ran with and its
// final state.
func NewResult(s nback.Settings, st nback.State) Result {
	return Result{
		Mode:         s.Mode.Key(),
		NBack:        s.NBack,
		Size:         s.Size,
		Combinations: s.Combinations,
		PercentMatch: s.PercentMatch,
		IntervalMs:   int(s.EventInterval / time.Millisecond),
		Score:        st.Score,
		Hits:         st.Hits,
		Misses:       st.Misses,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// High score writes arrive from engine goroutines while the UI saves
	// results; a single connection keeps SQLite from reporting busy.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			n_back INTEGER NOT NULL,
			size INTEGER NOT NULL,
			combinations INTEGER NOT NULL,
			percent_match INTEGER NOT NULL,
			interval_ms INTEGER NOT NULL,
			score INTEGER NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			misses INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_mode ON results(mode);
		CREATE INDEX IF NOT EXISTS idx_results_top ON results(mode, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// ReadHighScore returns the stored high score, or 0 if none was saved.
func (s *Store) ReadHighScore() (int, error) {
	value, ok, err := s.Get(HighScoreKey)
	if err != nil || !ok {
		return 0, err
	}
	score, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("storage: corrupt high score %q: %w", value, err)
	}
	return score, nil
}

// WriteHighScore replaces the stored high score.
func (s *Store) WriteHighScore(score int) error {
	return s.Set(HighScoreKey, strconv.Itoa(score))
}

// SaveResult records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveResult(r Result) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO results
		 (mode, n_back, size, combinations, percent_match, interval_ms, score, hits, misses)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Mode, r.NBack, r.Size, r.Combinations, r.PercentMatch, r.IntervalMs,
		r.Score, r.Hits, r.Misses,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const resultColumns = `id, mode, n_back, size, combinations, percent_match, interval_ms,
		        score, hits, misses, created_at`

// TopResults retrieves the best results for the given mode key.
// Results are ordered by score descending, then by N descending.
func (s *Store) TopResults(mode string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE mode = ?
		 ORDER BY score DESC, n_back DESC, id ASC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

// RecentResults retrieves the most recent results across all modes.
func (s *Store) RecentResults(limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recent results: %w", err)
	}
	return scanResults(rows)
}

// ClearResults deletes the history of one mode, or of every mode when mode
// is empty. The high score is kept.
func (s *Store) ClearResults(mode string) error {
	var err error
	if mode == "" {
		_, err = s.db.Exec("DELETE FROM results")
	} else {
		_, err = s.db.Exec("DELETE FROM results WHERE mode = ?", mode)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Mode, &r.NBack, &r.Size, &r.Combinations, &r.PercentMatch, &r.IntervalMs,
			&r.Score, &r.Hits, &r.Misses, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
