// db.go
//
// Storage bootstrap for the Crazee server.
// Responsibilities:
//   - Opening + migrating the SQLite database (accounts, history, daily results).
//   - Choosing the snapshot store for saved games (SQLite or in-memory).
//
// Note: accounts and history always need the database; only saved games can
// be kept in memory.

package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog/log"

	"github.com/EthanCarson/Crazy-Rolls/internal/config"
	"github.com/EthanCarson/Crazy-Rolls/internal/database"
	"github.com/EthanCarson/Crazy-Rolls/internal/store"
)

/**
 * openStorage opens the database at cfg.DBPath and builds the save store.
 *
 * - Applies embedded migrations (idempotent).
 * - SAVE_STORE=memory keeps snapshots in process memory.
 *
 * @returns the DB handle (caller closes) and the snapshot store.
 */
func openStorage(cfg config.Config, clock quartz.Clock) (*sql.DB, store.Store, error) {
	db, err := database.OpenMigrated(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}

	var saves store.Store
	switch cfg.SaveStore {
	case "memory":
		saves = store.NewMemoryStore()
	default:
		saves = store.NewSQLStore(db, func() time.Time { return clock.Now() })
	}
	log.Info().Str("db", cfg.DBPath).Str("saves", cfg.SaveStore).Msg("storage ready")
	return db, saves, nil
}
