package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ModeStats contains aggregated statistics for one mode.
type ModeStats struct {
	Mode        string
	GamesCount  int
	BestScore   int
	BestNBack   int // Highest N played in this mode
	AvgScore    float64
	TotalHits   int
	TotalMisses int
	LastPlayed  time.Time
}

// Accuracy returns hits over all claims, or 0 when nothing was claimed.
func (m ModeStats) Accuracy() float64 {
	claims := m.TotalHits + m.TotalMisses
	if claims == 0 {
		return 0
	}
	return float64(m.TotalHits) / float64(claims)
}

// ModeStats retrieves aggregated statistics for a specific mode.
func (s *Store) ModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(MAX(n_back), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(hits), 0), COALESCE(SUM(misses), 0)
		 FROM results WHERE mode = ?`,
		mode,
	).Scan(&stats.GamesCount, &stats.BestScore, &stats.BestNBack, &stats.AvgScore, &stats.TotalHits, &stats.TotalMisses)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM results WHERE mode = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		mode,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}
