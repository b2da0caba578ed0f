package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cognicore/seolens/pkg/seolens/filter"
	"github.com/cognicore/seolens/pkg/seolens/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS stoplist (
	token TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS deny_patterns (
	kind TEXT NOT NULL,
	position INTEGER NOT NULL,
	pattern TEXT NOT NULL,
	reason TEXT,
	PRIMARY KEY(kind, position)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertStoplist replaces the stopword set in a single transaction.
func (s *sqliteStore) UpsertStoplist(ctx context.Context, tokens []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stoplist`); err != nil {
		return err
	}
	if err := insertTokens(ctx, tx, tokens); err != nil {
		return err
	}
	return tx.Commit()
}

// AddStopwords inserts tokens, keeping existing ones.
func (s *sqliteStore) AddStopwords(ctx context.Context, tokens ...string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertTokens(ctx, tx, tokens); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTokens(ctx context.Context, tx *sql.Tx, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stoplist (token) VALUES (?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, tok); err != nil {
			return err
		}
	}
	return nil
}

// RemoveStopwords deletes tokens.
func (s *sqliteStore) RemoveStopwords(ctx context.Context, tokens ...string) error {
	for _, tok := range tokens {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM stoplist WHERE token=?`, tok); err != nil {
			return err
		}
	}
	return nil
}

// Stopwords returns the stopword table, sorted.
func (s *sqliteStore) Stopwords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT token FROM stoplist ORDER BY token`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []string
	for rows.Next() {
		var tok string
		if err := rows.Scan(&tok); err != nil {
			return nil, err
		}
		stops = append(stops, tok)
	}
	return stops, rows.Err()
}

// UpsertPatterns replaces the rules of kind, preserving their order.
func (s *sqliteStore) UpsertPatterns(ctx context.Context, kind store.PatternKind, rules []filter.Rule) error {
	if err := store.CheckKind(kind); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM deny_patterns WHERE kind=?`, string(kind)); err != nil {
		return err
	}

	if len(rules) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO deny_patterns (kind, position, pattern, reason) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, r := range rules {
			if _, err := stmt.ExecContext(ctx, string(kind), i, r.Pattern, r.Reason); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Patterns returns the rules of kind in their stored order.
func (s *sqliteStore) Patterns(ctx context.Context, kind store.PatternKind) ([]filter.Rule, error) {
	if err := store.CheckKind(kind); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT pattern, COALESCE(reason, '') FROM deny_patterns WHERE kind=? ORDER BY position`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []filter.Rule
	for rows.Next() {
		var r filter.Rule
		if err := rows.Scan(&r.Pattern, &r.Reason); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}
