package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns the queued draws in order (already 0-based).
type scripted struct{ draws []int }

func (s *scripted) Intn(n int) int {
	v := s.draws[0]
	s.draws = s.draws[1:]
	return v % n
}

func TestNewSetIsUnrolled(t *testing.T) {
	s := NewSet(nil)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, s.Values())
	assert.False(t, s.Rolled())
	assert.Len(t, s.Active(), Count)
	assert.Empty(t, s.Reserved())
	for i, d := range s.Dice() {
		assert.Equal(t, i, d.ID)
	}
}

func TestRollAll(t *testing.T) {
	s := NewSet(&scripted{draws: []int{4, 4, 4, 1, 1}})
	s.RollAll()
	assert.Equal(t, []int{5, 5, 5, 2, 2}, s.Values())
	assert.True(t, s.Rolled())
}

func TestRollAllKeepsReservedFlags(t *testing.T) {
	s := NewSet(&scripted{draws: []int{0, 1, 2, 3, 4}})
	s.ToggleReserved(2)
	s.RollAll()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, s.Values())
	require.Len(t, s.Reserved(), 1)
	assert.Equal(t, 2, s.Reserved()[0].ID)
}

func TestRollUnreservedKeepsReservedValues(t *testing.T) {
	s := NewSet(&scripted{draws: []int{0, 1, 2, 3, 4, 5, 5, 5}})
	s.RollAll()
	s.ToggleReserved(0)
	s.ToggleReserved(3)
	s.RollUnreserved()
	assert.Equal(t, []int{1, 6, 6, 4, 6}, s.Values())
}

func TestToggleReserved(t *testing.T) {
	s := NewSet(nil)

	t.Run("known id flips", func(t *testing.T) {
		assert.True(t, s.ToggleReserved(1))
		assert.True(t, s.Dice()[1].Reserved)
		assert.True(t, s.ToggleReserved(1))
		assert.False(t, s.Dice()[1].Reserved)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		before := s.Dice()
		assert.False(t, s.ToggleReserved(-1))
		assert.False(t, s.ToggleReserved(Count))
		assert.Equal(t, before, s.Dice())
	})
}

func TestActiveAndReservedPreserveOrder(t *testing.T) {
	s := NewSet(&scripted{draws: []int{0, 1, 2, 3, 4}})
	s.RollAll()
	s.ToggleReserved(4)
	s.ToggleReserved(1)

	ids := func(ds []Die) []int {
		out := []int{}
		for _, d := range ds {
			out = append(out, d.ID)
		}
		return out
	}
	assert.Equal(t, []int{0, 2, 3}, ids(s.Active()))
	assert.Equal(t, []int{1, 4}, ids(s.Reserved()))
}

func TestFromDiceReassignsIDs(t *testing.T) {
	var saved [Count]Die
	for i := range saved {
		saved[i] = Die{ID: 9, Value: i + 1, Reserved: i%2 == 0}
	}
	s := FromDice(saved, nil)
	for i, d := range s.Dice() {
		assert.Equal(t, i, d.ID)
		assert.Equal(t, i+1, d.Value)
		assert.Equal(t, i%2 == 0, d.Reserved)
	}
}

func TestSystemRollerStaysInRange(t *testing.T) {
	s := NewSet(SystemRoller())
	counts := map[int]int{}
	for i := 0; i < 2000; i++ {
		s.RollAll()
		for _, v := range s.Values() {
			require.GreaterOrEqual(t, v, 1)
			require.LessOrEqual(t, v, Faces)
			counts[v]++
		}
	}
	// 10000 draws; every face should show up.
	assert.Len(t, counts, Faces)
}

func TestSeededIsDeterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 7
	a, b := NewSet(Seeded(seed)), NewSet(Seeded(seed))
	for i := 0; i < 5; i++ {
		a.RollAll()
		b.RollAll()
		assert.Equal(t, a.Values(), b.Values())
	}
}
