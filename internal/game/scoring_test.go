package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allHands enumerates every ordered roll of five dice.
func allHands(fn func([]int)) {
	h := make([]int, 5)
	var rec func(i int)
	rec = func(i int) {
		if i == len(h) {
			fn(append([]int(nil), h...))
			return
		}
		for v := 1; v <= 6; v++ {
			h[i] = v
			rec(i + 1)
		}
	}
	rec(0)
}

func TestScoreTable(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		cat    Category
		want   int
	}{
		{"ones", []int{1, 1, 3, 4, 1}, Ones, 3},
		{"sixes none", []int{1, 2, 3, 4, 5}, Sixes, 0},
		{"fives", []int{5, 5, 2, 5, 1}, Fives, 15},
		{"three kind", []int{5, 5, 5, 2, 2}, ThreeKind, 19},
		{"three kind missing", []int{5, 5, 4, 2, 2}, ThreeKind, 0},
		{"four kind", []int{3, 3, 3, 3, 6}, FourKind, 18},
		{"four kind from five", []int{2, 2, 2, 2, 2}, FourKind, 10},
		{"four kind missing", []int{3, 3, 3, 6, 6}, FourKind, 0},
		{"full house", []int{5, 5, 5, 2, 2}, FullHouse, 25},
		{"full house not five of a kind", []int{4, 4, 4, 4, 4}, FullHouse, 0},
		{"full house not four plus one", []int{4, 4, 4, 4, 1}, FullHouse, 0},
		{"small low", []int{1, 2, 3, 4, 4}, SmallStraight, 30},
		{"small high", []int{6, 3, 5, 4, 1}, SmallStraight, 30},
		{"small missing", []int{1, 2, 3, 5, 6}, SmallStraight, 0},
		{"large", []int{1, 2, 3, 4, 5}, LargeStraight, 40},
		{"large high", []int{6, 5, 4, 3, 2}, LargeStraight, 40},
		{"large missing", []int{1, 2, 3, 4, 4}, LargeStraight, 0},
		{"chance", []int{6, 6, 1, 2, 3}, Chance, 18},
		{"crazee", []int{6, 6, 6, 6, 6}, Crazee, 50},
		{"crazee missing", []int{6, 6, 6, 6, 5}, Crazee, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.cat, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreUnknownCategory(t *testing.T) {
	for _, c := range []Category{0, -1, Crazee + 1, 99} {
		_, err := Score(c, []int{1, 2, 3, 4, 5})
		assert.ErrorIs(t, err, ErrUnknownCategory)
		_, err = Satisfied(c, []int{1, 2, 3, 4, 5})
		assert.ErrorIs(t, err, ErrUnknownCategory)
	}
}

func TestChanceIsAlwaysTheSum(t *testing.T) {
	allHands(func(h []int) {
		got, err := Score(Chance, h)
		require.NoError(t, err)
		assert.Equal(t, h[0]+h[1]+h[2]+h[3]+h[4], got, "%v", h)
	})
}

func TestCrazeeIffAllEqual(t *testing.T) {
	allHands(func(h []int) {
		got, err := Score(Crazee, h)
		require.NoError(t, err)
		same := h[0] == h[1] && h[1] == h[2] && h[2] == h[3] && h[3] == h[4]
		if same {
			assert.Equal(t, 50, got, "%v", h)
		} else {
			assert.Equal(t, 0, got, "%v", h)
		}
	})
}

func TestSatisfiedMatchesNonZeroScore(t *testing.T) {
	// Every category except the face sums scores non-zero exactly when it is
	// satisfied; face sums score non-zero exactly when the face is present.
	allHands(func(h []int) {
		for _, c := range Categories {
			ok, err := Satisfied(c, h)
			require.NoError(t, err)
			pts, err := Score(c, h)
			require.NoError(t, err)
			assert.Equal(t, ok, pts > 0, "%s %v", c, h)
		}
	})
}

func TestUnrolledDiceSatisfyNothing(t *testing.T) {
	unrolled := []int{0, 0, 0, 0, 0}
	for _, c := range Categories {
		ok, err := Satisfied(c, unrolled)
		require.NoError(t, err)
		assert.Equal(t, c == Chance, ok, "%s", c)

		pts, err := Score(c, unrolled)
		require.NoError(t, err)
		assert.Zero(t, pts, "%s", c)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCategory("yahtzee")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Len(t, Categories, 13)
}
