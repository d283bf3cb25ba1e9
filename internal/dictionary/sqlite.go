package dictionary

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/game"
)

// SQLite looks words up in the lexicon table of the server database.
// The table is created by the store migrations.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

// IsRecognizedWord reports whether (base language, word) has a row.
func (s *SQLite) IsRecognizedWord(ctx context.Context, word, languageTag string) (bool, error) {
	b, err := Base(languageTag)
	if err != nil {
		return false, err
	}
	var one int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM lexicon WHERE language=? AND word=?`,
		b.String(), game.Normalize(word),
	).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("dictionary: sqlite lookup: %w", err)
	}
	return true, nil
}

// Count returns the number of words stored for languageTag.
func (s *SQLite) Count(ctx context.Context, languageTag string) (int, error) {
	b, err := Base(languageTag)
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM lexicon WHERE language=?`, b.String()).Scan(&n)
	return n, err
}

// Seed inserts list for languageTag in one transaction. Existing rows are kept.
func (s *SQLite) Seed(ctx context.Context, languageTag string, list []string) error {
	b, err := Base(languageTag)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO lexicon(language, word) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("dictionary: prepare seed: %w", err)
	}
	defer stmt.Close()

	for _, w := range list {
		w = game.Normalize(w)
		if w == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, b.String(), w); err != nil {
			return fmt.Errorf("dictionary: seed %q: %w", w, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dictionary: commit seed: %w", err)
	}
	log.Info().Str("language", b.String()).Int("words", len(list)).Msg("seeded lexicon table")
	return nil
}

// SeedIfEmpty seeds from path (or the embedded lexicon) when the table has
// no words for languageTag yet.
func (s *SQLite) SeedIfEmpty(ctx context.Context, languageTag, path string) error {
	n, err := s.Count(ctx, languageTag)
	if err != nil {
		return fmt.Errorf("dictionary: count lexicon: %w", err)
	}
	if n > 0 {
		return nil
	}
	list, err := readList(path)
	if err != nil {
		return err
	}
	return s.Seed(ctx, languageTag, list)
}
