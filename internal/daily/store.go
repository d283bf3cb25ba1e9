package daily

import (
	"context"
	"database/sql"
)

// Result is one player's score for a daily root word.
type Result struct {
	PlayerID string `json:"playerId"`
	Date     string `json:"date"`
	RootWord string `json:"rootWord"`
	Score    int    `json:"score"`
	Words    int    `json:"words"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record saves r, keeping the higher score if the player already has a
// result for that date.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_results(player_id, date, root_word, score, words)
		 VALUES(?,?,?,?,?)
		 ON CONFLICT(player_id, date) DO UPDATE SET
		     score = excluded.score,
		     words = excluded.words,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE excluded.score > daily_results.score`,
		r.PlayerID, r.Date, r.RootWord, r.Score, r.Words,
	)
	return err
}

// Best returns a player's result for date, or sql.ErrNoRows.
func (s *Store) Best(ctx context.Context, playerID, date string) (Result, error) {
	r := Result{PlayerID: playerID, Date: date}
	err := s.db.QueryRowContext(ctx,
		`SELECT root_word, score, words FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&r.RootWord, &r.Score, &r.Words)
	return r, err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
	Words    int    `json:"words"`
}

// Leaderboard returns the top results for date, highest score first.
// Ties go to whoever reached the score first.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, score, words
		 FROM daily_results
		 WHERE date=?
		 ORDER BY score DESC, updated_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Score, &r.Words); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
