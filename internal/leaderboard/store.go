package leaderboard

import (
	"context"
	"slices"
	"sync"
)

// Store loads and saves the whole score document.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// MemoryStore keeps scores in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryStore creates a store seeded with entries.
func NewMemoryStore(entries ...Entry) *MemoryStore {
	return &MemoryStore{entries: slices.Clone(entries)}
}

// Load returns a copy of the stored entries.
func (m *MemoryStore) Load(ctx context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries), nil
}

// Save replaces the stored entries.
func (m *MemoryStore) Save(ctx context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = slices.Clone(entries)
	return nil
}

// NullStore is used when no store is configured. Every call fails with ErrNotConfigured.
type NullStore struct{}

// Load always fails.
func (NullStore) Load(context.Context) ([]Entry, error) {
	return nil, ErrNotConfigured
}

// Save always fails.
func (NullStore) Save(context.Context, []Entry) error {
	return ErrNotConfigured
}
