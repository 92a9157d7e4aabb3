package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanCarson/Crazy-Rolls/internal/config"
	"github.com/EthanCarson/Crazy-Rolls/internal/game"
	"github.com/EthanCarson/Crazy-Rolls/internal/store"
)

func TestRegistrySweepsIdleSessions(t *testing.T) {
	g := newRegistry(10 * time.Minute)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mk := func(slot string) func() *session {
		return func() *session { return &session{slot: slot} }
	}

	idle := g.get("idle", t0, mk("idle"))
	held := g.get("held", t0, mk("held"))
	held.mu.Lock()
	require.Equal(t, 2, g.size())

	// Still within the idle window: nothing goes.
	g.get("fresh", t0.Add(5*time.Minute), mk("fresh"))
	assert.Equal(t, 3, g.size())

	g.get("fresh", t0.Add(11*time.Minute), mk("fresh"))
	assert.Equal(t, 2, g.size())
	assert.True(t, idle.gone)
	assert.False(t, held.gone)
	assert.NotSame(t, idle, g.get("idle", t0.Add(11*time.Minute), mk("idle")))

	held.mu.Unlock()
	g.get("fresh", t0.Add(13*time.Minute), mk("fresh"))
	assert.True(t, held.gone)
}

func TestIdleSessionReloadsFromStore(t *testing.T) {
	env := newEnv(t, func(c *config.Config) { c.SessionIdle = 10 * time.Minute })
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := env.player()

	_, v := p.view(http.MethodPost, "/game/roll", nil)
	require.Equal(t, 1, v.RollsUsedThisTurn)

	// Rewrite the stored game behind the live session's back.
	fresh, err := json.Marshal(game.New().Snapshot())
	require.NoError(t, err)
	_, err = env.db.Exec(`UPDATE saves SET snapshot=?`, string(fresh))
	require.NoError(t, err)

	_, v = p.view(http.MethodGet, "/game", nil)
	assert.Equal(t, 1, v.RollsUsedThisTurn, "live session still in memory")

	env.clock.Advance(11 * time.Minute).MustWait(ctx)
	_, v = p.view(http.MethodGet, "/game", nil)
	assert.Equal(t, 0, v.RollsUsedThisTurn)
	assert.Equal(t, game.AwaitingFirstRoll, v.State)
}

func TestClaimWaitsForHeldGuestSession(t *testing.T) {
	env := newEnv(t, nil)
	s := New(env.cfg, env.saves, env.db, env.clock)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	guest, member := owner{anonID: "guest-1"}, owner{userID: "user-1"}
	sess, err := s.openSession(ctx, classicSlot(guest), modeClassic, "", guest)
	require.NoError(t, err)
	require.NoError(t, sess.eng.Roll())
	s.save(ctx, sess)

	done := make(chan struct{})
	go func() {
		s.claimAnon(ctx, guest.anonID, member.userID)
		close(done)
	}()
	assert.Never(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond)

	// The in-flight request finishes and saves before the claim moves the slot.
	sess.eng.ToggleReserved(2)
	want := sess.eng.Snapshot()
	s.save(ctx, sess)
	sess.mu.Unlock()
	<-done

	assert.True(t, sess.gone)
	_, err = env.saves.Load(ctx, classicSlot(guest))
	assert.ErrorIs(t, err, store.ErrNotFound)
	got, err := env.saves.Load(ctx, classicSlot(member))
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	again, err := s.openSession(ctx, classicSlot(guest), modeClassic, "", guest)
	require.NoError(t, err)
	defer again.mu.Unlock()
	assert.NotSame(t, sess, again)
	assert.Equal(t, 0, again.eng.RollsUsedThisTurn())
}
