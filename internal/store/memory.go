// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for ephemeral play (development/testing) or when durability is not
// required.
//
// Characteristics:
//   - Stores encoded snapshots keyed by slot, so callers never share memory
//     with the store.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/EthanCarson/Crazy-Rolls/internal/game"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex      // guards saves map
	saves map[string][]byte // keyed by slot
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{saves: make(map[string][]byte)}
}

// Save adds or replaces the snapshot in the slot.
func (m *memory) Save(ctx context.Context, slot string, s game.Snapshot) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[slot] = b
	return nil
}

// Load decodes the snapshot in the slot, or returns ErrNotFound.
func (m *memory) Load(ctx context.Context, slot string) (*game.Snapshot, error) {
	m.mu.RLock()
	b, ok := m.saves[slot]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(b)
}

// Delete drops the slot. Deleting a missing slot is not an error.
func (m *memory) Delete(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, slot)
	return nil
}

// Move renames a slot, replacing any snapshot already at to.
func (m *memory) Move(ctx context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.saves[from]
	if !ok {
		return ErrNotFound
	}
	m.saves[to] = b
	delete(m.saves, from)
	return nil
}
