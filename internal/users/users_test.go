package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanCarson/Crazy-Rolls/internal/database"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenMigrated(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestValidateSignup(t *testing.T) {
	assert.NoError(t, ValidateSignup("dice_fan", "password1"))
	assert.Error(t, ValidateSignup("ab", "password1"))
	assert.Error(t, ValidateSignup("bad name", "password1"))
	assert.Error(t, ValidateSignup("dice_fan", "short"))
}

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	u, err := st.Create(ctx, "  Roller ", "hunter2hunter2", now)
	require.NoError(t, err)
	assert.Equal(t, "Roller", u.Username)
	assert.Len(t, u.ID, 22)
	assert.True(t, CheckPassword(u.PasswordHash, "hunter2hunter2"))
	assert.False(t, CheckPassword(u.PasswordHash, "wrong-password"))

	_, err = st.Create(ctx, "roller", "another-password", now)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	byName, err := st.FindByUsername(ctx, "ROLLER")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, now, byName.CreatedAt)

	_, err = st.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReportsLookupFailure(t *testing.T) {
	db, err := database.OpenMigrated(":memory:")
	require.NoError(t, err)
	st := NewStore(db)
	require.NoError(t, db.Close())

	_, err = st.Create(context.Background(), "unlucky", "password123", time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorContains(t, err, "check username")
}

func TestBumpStats(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	u, err := st.Create(ctx, "scorer", "password123", time.Now())
	require.NoError(t, err)

	for _, score := range []int{120, 240, 90} {
		tx, err := st.db.BeginTx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, BumpStats(ctx, tx, u.ID, score))
		require.NoError(t, tx.Commit())
	}

	got, err := st.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.GamesPlayed)
	assert.Equal(t, 240, got.BestScore)
	assert.Equal(t, 450, got.TotalScore)

	tx, err := st.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	assert.ErrorIs(t, BumpStats(ctx, tx, "ghost", 10), ErrNotFound)
}
