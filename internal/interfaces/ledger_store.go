package interfaces

import "context"

// LedgerStore is the key-value store leaderboards are persisted in.
// Values are opaque bytes; the ledger owns the encoding.
type LedgerStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// BatchStore is implemented by stores that can apply several writes
// all-or-nothing.
type BatchStore interface {
	LedgerStore
	SetMany(ctx context.Context, sets map[string][]byte, deletes []string) error
}
