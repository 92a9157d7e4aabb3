// internal/httpserver/sessions.go
//
// Live game sessions, one per save slot.
// Responsibilities:
//   - Resolve the slot owner (signed-in user or anonymous cookie).
//   - Lazily restore a slot's engine from the snapshot store on first use.
//   - Serialize all operations on one slot with a per-session mutex.
//   - Save after every successful mutation; record finished games once.
//   - Evict idle sessions; their snapshots are already in the store.

package httpserver

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/EthanCarson/Crazy-Rolls/internal/daily"
	"github.com/EthanCarson/Crazy-Rolls/internal/game"
	"github.com/EthanCarson/Crazy-Rolls/internal/store"
	"github.com/EthanCarson/Crazy-Rolls/internal/users"
)

const (
	modeClassic = "classic"
	modeDaily   = "daily"
)

// owner identifies who a slot belongs to. Exactly one field is set.
type owner struct {
	userID string
	anonID string
}

func (o owner) key() string {
	if o.userID != "" {
		return "u:" + o.userID
	}
	return "a:" + o.anonID
}

func classicSlot(o owner) string { return o.key() }

func dailySlot(date string, o owner) string { return "daily:" + date + ":" + o.key() }

const (
	defaultSessionIdle = 30 * time.Minute
	sweepEvery         = time.Minute
)

// session is one slot's engine plus bookkeeping for its history row.
type session struct {
	mu       sync.Mutex
	slot     string
	mode     string
	date     string
	owner    owner
	eng      *game.Engine
	loaded   bool
	gameID   string
	started  time.Time
	finished bool

	// Guarded by registry.mu.
	lastUsed time.Time
	// Set under mu once the session has left the registry. A request that
	// then acquires mu must reopen the slot instead of using this engine.
	gone     bool
}

// registry holds live sessions keyed by slot.
type registry struct {
	mu    sync.Mutex
	m     map[string]*session
	idle  time.Duration
	swept time.Time
}

func newRegistry(idle time.Duration) *registry {
	if idle <= 0 {
		idle = defaultSessionIdle
	}
	return &registry{m: make(map[string]*session), idle: idle}
}

// get returns the live session for slot, creating it with mk if needed, and
// marks it used at now. Idle sessions are swept at most once per sweepEvery.
func (g *registry) get(slot string, now time.Time, mk func() *session) *session {
	g.mu.Lock()
	defer g.mu.Unlock()
	if now.Sub(g.swept) >= sweepEvery {
		g.sweep(now)
		g.swept = now
	}
	s, ok := g.m[slot]
	if !ok {
		s = mk()
		g.m[slot] = s
	}
	s.lastUsed = now
	return s
}

// sweep drops sessions unused for g.idle. A session held by a request is
// skipped until a later sweep. g.mu must be held.
func (g *registry) sweep(now time.Time) {
	for slot, s := range g.m {
		if now.Sub(s.lastUsed) < g.idle || !s.mu.TryLock() {
			continue
		}
		s.gone = true
		delete(g.m, slot)
		s.mu.Unlock()
	}
}

// retire takes the live sessions for slots out of the registry and keeps them
// locked until release is called, so no request can save over a slot while
// the caller rewrites it in the store.
func (g *registry) retire(slots ...string) (release func()) {
	g.mu.Lock()
	live := lo.FilterMap(slots, func(slot string, _ int) (*session, bool) {
		s, ok := g.m[slot]
		return s, ok
	})
	g.mu.Unlock()

	for _, s := range live {
		s.mu.Lock()
		s.gone = true
	}
	g.mu.Lock()
	for _, s := range live {
		if g.m[s.slot] == s {
			delete(g.m, s.slot)
		}
	}
	g.mu.Unlock()

	return func() {
		for _, s := range live {
			s.mu.Unlock()
		}
	}
}

func (g *registry) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}

// ownerOf returns the signed-in user, or the anonymous cookie id (set on
// first use).
func (s *Server) ownerOf(w http.ResponseWriter, r *http.Request) owner {
	if me := currentUser(r); me != nil {
		return owner{userID: me.ID}
	}
	return owner{anonID: s.ensureAnonID(w, r)}
}

// newEngine builds an engine for mode. Daily engines draw from the date's
// seeded roll source.
func (s *Server) newEngine(mode, date string) *game.Engine {
	opts := s.cfg.EngineOptions()
	if mode == modeDaily {
		opts = append(opts, game.WithRollSource(daily.RollSource(date, s.cfg.DailySalt)))
	}
	return game.New(opts...)
}

// openSession returns the session for slot, locked. The caller must unlock it.
// A malformed saved snapshot is logged and replaced by a fresh game.
func (s *Server) openSession(ctx context.Context, slot, mode, date string, o owner) (*session, error) {
	mk := func() *session {
		return &session{slot: slot, mode: mode, date: date, owner: o, eng: s.newEngine(mode, date)}
	}
	var sess *session
	for {
		sess = s.sessions.get(slot, s.clock.Now(), mk)
		sess.mu.Lock()
		if !sess.gone {
			break
		}
		sess.mu.Unlock()
	}
	if sess.loaded {
		return sess, nil
	}

	restored, err := sess.eng.LoadFrom(ctx, store.Slot(s.saves, slot))
	switch {
	case game.IsInvalidSnapshot(err):
		log.Warn().Err(err).Str("slot", slot).Msg("discarding saved game")
		if err := s.saves.Delete(ctx, slot); err != nil {
			log.Warn().Err(err).Str("slot", slot).Msg("delete saved game")
		}
	case err != nil:
		sess.mu.Unlock()
		return nil, err
	}
	sess.loaded = true
	sess.gameID = users.GenID()
	sess.started = s.clock.Now()
	// A restored finished game was recorded when it ended.
	sess.finished = restored && sess.eng.State() == game.GameOver
	log.Debug().Str("slot", slot).Str("gameId", sess.gameID).Bool("restored", restored).Msg("session opened")
	return sess, nil
}

// save persists the session's snapshot. Failures are logged; play goes on
// without persistence.
func (s *Server) save(ctx context.Context, sess *session) {
	if err := sess.eng.SaveTo(ctx, store.Slot(s.saves, sess.slot)); err != nil {
		log.Warn().Err(err).Str("slot", sess.slot).Msg("save failed")
	}
}

// restart begins a new game in the session's slot.
func (s *Server) restart(sess *session) {
	sess.eng.ResetGame()
	sess.gameID = users.GenID()
	sess.started = s.clock.Now()
	sess.finished = false
}

// finish records a game that has just reached GameOver: a history row, the
// player's stats, and (daily) the day's result. It runs at most once per game.
func (s *Server) finish(ctx context.Context, sess *session) {
	if sess.finished || sess.eng.State() != game.GameOver {
		return
	}
	sess.finished = true
	now := s.clock.Now()
	score := sess.eng.TotalScore()
	lg := log.With().Str("slot", sess.slot).Str("gameId", sess.gameID).Int("score", score).Logger()

	if err := s.recordGame(ctx, sess, now, score); err != nil {
		lg.Warn().Err(err).Msg("record finished game")
	}
	if sess.mode == modeDaily {
		err := s.daily.InsertResult(ctx, daily.Result{
			UserID:    sess.owner.key(),
			Date:      sess.date,
			Score:     score,
			ElapsedMs: int(now.Sub(sess.started).Milliseconds()),
		})
		if err != nil {
			lg.Warn().Err(err).Msg("record daily result")
		}
	}
	lg.Info().Str("mode", sess.mode).Msg("game over")
}

func (s *Server) recordGame(ctx context.Context, sess *session, now time.Time, score int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID, anonID sql.NullString
	if sess.owner.userID != "" {
		userID = sql.NullString{String: sess.owner.userID, Valid: true}
	} else {
		anonID = sql.NullString{String: sess.owner.anonID, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, mode, started_at, finished_at, status, score)
         VALUES (?,?,?,?,?,?,'finished',?)`,
		sess.gameID, userID, anonID, sess.mode,
		sess.started.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339), score,
	); err != nil {
		return err
	}
	if userID.Valid {
		if err := users.BumpStats(ctx, tx, userID.String, score); err != nil {
			return err
		}
	}
	return tx.Commit()
}
