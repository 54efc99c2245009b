package postgres

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq" // registers the "postgres" driver

	interfaces "github.com/sheikh-saqib/arcade-highscore-ledger/internal/interfaces" // interface LedgerStore
)

const schema = `CREATE TABLE IF NOT EXISTS arcade_kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type PostgresLedgerStore struct {
	db *sql.DB
}

// Open connects to dsn and makes sure the key-value table exists.
func Open(ctx context.Context, dsn string) (*PostgresLedgerStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	store := NewPostgresLedgerStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

func (p *PostgresLedgerStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

func (p *PostgresLedgerStore) Close() error {
	return p.db.Close()
}

func (p *PostgresLedgerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const query = `SELECT value FROM arcade_kv WHERE key = $1`

	var value string
	err := p.db.QueryRowContext(ctx, query, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return []byte(value), true, nil
}

func (p *PostgresLedgerStore) Set(ctx context.Context, key string, value []byte) error {
	return setValue(ctx, p.db, key, value)
}

func (p *PostgresLedgerStore) Delete(ctx context.Context, key string) error {
	return deleteValue(ctx, p.db, key)
}

// SetMany writes and deletes inside one transaction.
func (p *PostgresLedgerStore) SetMany(ctx context.Context, sets map[string][]byte, deletes []string) error {

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for key, value := range sets {
		err = setValue(ctx, dbTx, key, value)
		if err != nil {
			return err
		}
	}

	for _, key := range deletes {
		err = deleteValue(ctx, dbTx, key)
		if err != nil {
			return err
		}
	}
	err = dbTx.Commit()
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setValue(ctx context.Context, ex execer, key string, value []byte) error {
	const query = `INSERT INTO arcade_kv (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	_, err := ex.ExecContext(ctx, query, key, string(value))
	return err
}

func deleteValue(ctx context.Context, ex execer, key string) error {
	const query = `DELETE FROM arcade_kv WHERE key = $1`

	_, err := ex.ExecContext(ctx, query, key)
	return err
}

var _ interfaces.BatchStore = (*PostgresLedgerStore)(nil)
