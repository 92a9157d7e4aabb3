// internal/store/store.go
//
// Persistence for saved games.
// A save slot holds one game.Snapshot as JSON. Slots are opaque keys chosen
// by the caller (the HTTP layer uses the player identity plus game mode).

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/EthanCarson/Crazy-Rolls/internal/game"
)

// ErrNotFound is returned by Load and Move when a slot is empty.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for saved games.
// Implementations may be backed by memory (memory.go) or SQLite (sqlite.go).
type Store interface {
	// Save persists or replaces the snapshot in a slot.
	Save(ctx context.Context, slot string, s game.Snapshot) error

	// Load retrieves the snapshot in a slot.
	// Returns ErrNotFound if the slot is empty, and an error wrapping
	// game.ErrInvalidSnapshot if the stored document cannot be decoded.
	Load(ctx context.Context, slot string) (*game.Snapshot, error)

	// Delete clears a slot.
	Delete(ctx context.Context, slot string) error

	// Move renames a slot (used when a guest signs in).
	Move(ctx context.Context, from, to string) error
}

// Slot binds a Store to one key, satisfying game.Persistence.
func Slot(st Store, key string) game.Persistence {
	return slot{st: st, key: key}
}

type slot struct {
	st  Store
	key string
}

func (s slot) Load(ctx context.Context) (*game.Snapshot, error) {
	snap, err := s.st.Load(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return snap, err
}

func (s slot) Save(ctx context.Context, snap game.Snapshot) error {
	return s.st.Save(ctx, s.key, snap)
}

func encode(s game.Snapshot) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*game.Snapshot, error) {
	var s game.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrInvalidSnapshot, err)
	}
	return &s, nil
}
