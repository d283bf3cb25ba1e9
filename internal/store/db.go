// internal/store/db.go
//
// SQLite helpers shared by the sqlite store, the sqlite dictionary and the
// daily leaderboard.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying migrations from an fs.FS of *.sql files (idempotent, recorded
//     in _migrations).

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// OpenDB opens (and creates if missing) a SQLite database file.
// The parent directory is created for relative paths like ./data/app.db.
func OpenDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// Migrate applies every *.sql file at the root of migrations in lexical order.
//
// Applied files are recorded in _migrations and skipped next time. Scripts
// that manage their own transaction (BEGIN TRANSACTION, PRAGMA FOREIGN_KEYS=OFF)
// run as-is; everything else runs inside a dedicated transaction.
func Migrate(db *sql.DB, migrations fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}
	names, err := pendingMigrations(db, migrations)
	if err != nil {
		return err
	}
	for _, name := range names {
		script, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := applyMigration(db, name, string(script)); err != nil {
			return err
		}
	}
	return nil
}

// pendingMigrations lists the *.sql files not yet recorded in _migrations.
func pendingMigrations(db *sql.DB, migrations fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	names := lo.FilterMap(entries, func(e fs.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".sql")
	})
	slices.Sort(names)

	var pending []string
	for _, name := range names {
		var one int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, name).Scan(&one)
		switch {
		case err == nil:
			log.Debug().Str("migration", name).Msg("already applied")
		case errors.Is(err, sql.ErrNoRows):
			pending = append(pending, name)
		default:
			return nil, fmt.Errorf("query _migrations: %w", err)
		}
	}
	return pending, nil
}

// selfManaged reports whether a script controls its own transaction.
func selfManaged(script string) bool {
	upper := strings.ToUpper(script)
	return strings.Contains(upper, "BEGIN TRANSACTION") ||
		strings.Contains(upper, "PRAGMA FOREIGN_KEYS=OFF") ||
		strings.Contains(upper, "PRAGMA FOREIGN_KEYS = OFF")
}

func applyMigration(db *sql.DB, name, script string) error {
	const record = `INSERT INTO _migrations(name) VALUES (?)`
	if selfManaged(script) {
		if _, err := db.Exec(script); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if _, err := db.Exec(record, name); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
		log.Info().Str("migration", name).Msg("applied (self-managed)")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(script); err != nil {
		return fmt.Errorf("apply %s: %w", name, err)
	}
	if _, err := tx.Exec(record, name); err != nil {
		return fmt.Errorf("record %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}
	log.Info().Str("migration", name).Msg("applied")
	return nil
}
