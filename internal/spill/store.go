package spill

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// store is the on-disk tier of a Bag.
type store struct {
	db   *sql.DB
	path string
}

// openStore creates a fresh spill file in dir.
func openStore(dir string) (*store, error) {
	f, err := os.CreateTemp(dir, "rdfpipe-spill-*.db")
	if err != nil {
		return nil, fmt.Errorf("create spill file: %w", err)
	}
	path := f.Name()
	f.Close()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to open spill database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to connect to spill database: %w", err)
	}

	// A Bag has a single owner; one connection keeps pragmas in effect.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &store{db: db, path: path}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = OFF",
		"PRAGMA synchronous = OFF",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// merge adds counts into the table in one transaction.
func (s *store) merge(ctx context.Context, entries func(yield func(key string, n int) bool)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("spill: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (key, n) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET n = n + excluded.n
	`)
	if err != nil {
		return fmt.Errorf("spill: prepare: %w", err)
	}
	defer stmt.Close()

	var execErr error
	entries(func(key string, n int) bool {
		if _, execErr = stmt.ExecContext(ctx, []byte(key), n); execErr != nil {
			return false
		}
		return true
	})
	if execErr != nil {
		return fmt.Errorf("spill: insert: %w", execErr)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("spill: commit: %w", err)
	}
	return nil
}

func (s *store) rows(ctx context.Context) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, `SELECT key, n FROM entries ORDER BY key ASC`)
}

func (s *store) close() error {
	err := s.db.Close()
	if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}
