package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanCarson/Crazy-Rolls/internal/database"
	"github.com/EthanCarson/Crazy-Rolls/internal/game"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := database.OpenMigrated(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLStore(db, nil),
	}
}

func playedSnapshot(t *testing.T) game.Snapshot {
	t.Helper()
	e := game.New()
	require.NoError(t, e.Roll())
	_, err := e.SubmitScore(game.Chance)
	require.NoError(t, err)
	require.NoError(t, e.AdvanceTurn())
	require.NoError(t, e.Roll())
	e.ToggleReserved(1)
	return e.Snapshot()
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("missing slot", func(t *testing.T) {
				_, err := st.Load(ctx, "nobody")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("save then load", func(t *testing.T) {
				snap := playedSnapshot(t)
				require.NoError(t, st.Save(ctx, "p1", snap))
				got, err := st.Load(ctx, "p1")
				require.NoError(t, err)
				assert.Equal(t, snap, *got)
			})

			t.Run("save replaces", func(t *testing.T) {
				first := playedSnapshot(t)
				second := game.New().Snapshot()
				require.NoError(t, st.Save(ctx, "p2", first))
				require.NoError(t, st.Save(ctx, "p2", second))
				got, err := st.Load(ctx, "p2")
				require.NoError(t, err)
				assert.Equal(t, second, *got)
			})

			t.Run("move", func(t *testing.T) {
				snap := playedSnapshot(t)
				require.NoError(t, st.Save(ctx, "anon", snap))
				require.NoError(t, st.Move(ctx, "anon", "u:1"))
				_, err := st.Load(ctx, "anon")
				assert.ErrorIs(t, err, ErrNotFound)
				got, err := st.Load(ctx, "u:1")
				require.NoError(t, err)
				assert.Equal(t, snap, *got)
				assert.ErrorIs(t, st.Move(ctx, "anon", "u:1"), ErrNotFound)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, st.Save(ctx, "p3", game.New().Snapshot()))
				require.NoError(t, st.Delete(ctx, "p3"))
				require.NoError(t, st.Delete(ctx, "p3"))
				_, err := st.Load(ctx, "p3")
				assert.ErrorIs(t, err, ErrNotFound)
			})
		})
	}
}

func TestSlotRoundTripThroughEngine(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			src := game.New()
			require.NoError(t, src.Roll())
			require.NoError(t, src.SaveTo(ctx, Slot(st, "x")))

			dst := game.New()
			ok, err := dst.LoadFrom(ctx, Slot(st, "x"))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, src.Snapshot(), dst.Snapshot())

			ok, err = game.New().LoadFrom(ctx, Slot(st, "empty"))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLStoreCorruptRow(t *testing.T) {
	db, err := database.OpenMigrated(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`INSERT INTO saves(slot, snapshot, updated_at) VALUES ('bad', '{"dice":', 'now')`)
	require.NoError(t, err)

	st := NewSQLStore(db, nil)
	_, err = st.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, game.ErrInvalidSnapshot)

	e := game.New()
	_, err = e.LoadFrom(context.Background(), Slot(st, "bad"))
	assert.True(t, game.IsInvalidSnapshot(err))
	assert.Equal(t, game.AwaitingFirstRoll, e.State())
}
