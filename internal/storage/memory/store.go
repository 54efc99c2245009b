package memory

import (
	"context" // standard Go package for request-scoped context (timeouts, cancellation)
	"sort"
	"sync" // standard Go package for concurrency primitives like Mutex

	interfaces "github.com/sheikh-saqib/arcade-highscore-ledger/internal/interfaces" // interface LedgerStore
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It plays the role browser local storage plays for the arcade page:
// a flat string-keyed map, lost when the process exits.
type MemoryLedgerStore struct {
	mu     sync.Mutex        // mutex to protect values from concurrent access
	values map[string][]byte // key -> encoded leaderboard
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key.
func (m *MemoryLedgerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {

	m.mu.Lock()         // lock to prevent concurrent modification while reading
	defer m.mu.Unlock() // unlock automatically at the end

	value, exists := m.values[key]
	if !exists {
		return nil, false, nil
	}
	return copyBytes(value), true, nil // return a copy so external code can't modify internal state
}

func (m *MemoryLedgerStore) Set(ctx context.Context, key string, value []byte) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = copyBytes(value)
	return nil // always succeeds in memory, so returns nil
}

func (m *MemoryLedgerStore) Delete(ctx context.Context, key string) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// SetMany applies all writes under one lock, so readers never see half a batch.
func (m *MemoryLedgerStore) SetMany(ctx context.Context, sets map[string][]byte, deletes []string) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range sets {
		m.values[key] = copyBytes(value)
	}
	for _, key := range deletes {
		delete(m.values, key)
	}
	return nil
}

// Keys lists the stored keys in sorted order.
// Useful for testing, debugging, and printing store state.
func (m *MemoryLedgerStore) Keys() []string {

	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func copyBytes(b []byte) []byte {
	copied := make([]byte, len(b))
	copy(copied, b)
	return copied
}

// Compile-time check: ensure MemoryLedgerStore implements BatchStore interface
var _ interfaces.BatchStore = (*MemoryLedgerStore)(nil)
