// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Snapshots live in the `saves` table as JSON text, one row per slot.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/EthanCarson/Crazy-Rolls/internal/game"
)

type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore returns a Store over a migrated database.
// now stamps updated_at; nil means time.Now.
func NewSQLStore(db *sql.DB, now func() time.Time) Store {
	if now == nil {
		now = time.Now
	}
	return &sqliteStore{db: db, now: now}
}

func (s *sqliteStore) Save(ctx context.Context, slot string, snap game.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO saves (slot, snapshot, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(slot) DO UPDATE SET snapshot=excluded.snapshot, updated_at=excluded.updated_at`,
		slot, string(b), s.now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *sqliteStore) Load(ctx context.Context, slot string) (*game.Snapshot, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM saves WHERE slot=?`, slot).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode([]byte(raw))
}

func (s *sqliteStore) Delete(ctx context.Context, slot string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot=?`, slot)
	return err
}

func (s *sqliteStore) Move(ctx context.Context, from, to string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT snapshot FROM saves WHERE slot=?`, from).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO saves (slot, snapshot, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(slot) DO UPDATE SET snapshot=excluded.snapshot, updated_at=excluded.updated_at`,
		to, raw, s.now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM saves WHERE slot=?`, from); err != nil {
		return err
	}
	return tx.Commit()
}
