// Package sqlite persists leaderboards in a single SQLite file using the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	interfaces "github.com/sheikh-saqib/arcade-highscore-ledger/internal/interfaces"
)

const schema = `CREATE TABLE IF NOT EXISTS arcade_kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type SQLiteLedgerStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. ":memory:" gives a
// private in-memory database, handy in tests.
func Open(ctx context.Context, path string) (*SQLiteLedgerStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection: an in-memory database is per connection, and a
	// file database only takes one writer anyway
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteLedgerStore{db: db}, nil
}

func (s *SQLiteLedgerStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteLedgerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM arcade_kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *SQLiteLedgerStore) Set(ctx context.Context, key string, value []byte) error {
	return upsert(ctx, s.db, key, value)
}

func (s *SQLiteLedgerStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM arcade_kv WHERE key = ?`, key)
	return err
}

func (s *SQLiteLedgerStore) SetMany(ctx context.Context, sets map[string][]byte, deletes []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op after Commit

	for key, value := range sets {
		if err := upsert(ctx, tx, key, value); err != nil {
			return err
		}
	}
	for _, key := range deletes {
		if _, err := tx.ExecContext(ctx, `DELETE FROM arcade_kv WHERE key = ?`, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, ex execer, key string, value []byte) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO arcade_kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value))
	return err
}

var _ interfaces.BatchStore = (*SQLiteLedgerStore)(nil)
