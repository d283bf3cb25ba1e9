package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/wordscramble/internal/game"
)

// sqliteStore keeps live games in the games table so they survive a server
// restart. Update is serialised per game in-process; no transaction is held
// while the update function runs, so a slow game never blocks the others.
type sqliteStore struct {
	db    *sql.DB
	locks keyedMutex
}

// NewSQLiteStore returns a Store backed by db. The schema comes from Migrate.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Save(ctx context.Context, st *game.State) error {
	return s.save(ctx, st)
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*game.State, error) {
	return s.get(ctx, id)
}

func (s *sqliteStore) Update(ctx context.Context, id string, fn UpdateFunc) (*game.State, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	cur, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(ctx, cur)
	if err != nil {
		return nil, err
	}
	next.ID = id
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *sqliteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM games`).Scan(&n)
	return n, err
}

func (s *sqliteStore) save(ctx context.Context, st *game.State) error {
	used, err := json.Marshal(st.UsedWords)
	if err != nil {
		return fmt.Errorf("store: encode used words: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO games (id, mode, date, root_word, used_words, score, language, started_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            mode=excluded.mode,
            date=excluded.date,
            root_word=excluded.root_word,
            used_words=excluded.used_words,
            score=excluded.score,
            language=excluded.language,
            started_at=excluded.started_at,
            updated_at=excluded.updated_at`,
		st.ID, string(st.Mode), st.Date, st.RootWord, string(used), st.Score, st.Language,
		st.StartedAt.UTC().Format(time.RFC3339Nano), st.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", st.ID, err)
	}
	return nil
}

func (s *sqliteStore) get(ctx context.Context, id string) (*game.State, error) {
	var (
		st               game.State
		mode, used       string
		started, updated string
	)
	err := s.db.QueryRowContext(ctx, `
        SELECT id, mode, date, root_word, used_words, score, language, started_at, updated_at
        FROM games WHERE id=?`, id,
	).Scan(&st.ID, &mode, &st.Date, &st.RootWord, &used, &st.Score, &st.Language, &started, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	st.Mode = game.Mode(mode)
	if err := json.Unmarshal([]byte(used), &st.UsedWords); err != nil {
		return nil, fmt.Errorf("store: decode used words of %s: %w", id, err)
	}
	if st.UsedWords == nil {
		st.UsedWords = []string{}
	}
	st.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	st.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &st, nil
}
