// internal/game/scoring.go
//
// Category rules over a multiset of five die values.
//   - Score computes the points a category is worth.
//   - Satisfied reports whether the dice meet a category's condition.
// Both are pure functions; the engine layers used-category bookkeeping on top.

package game

import (
	"fmt"

	"github.com/samber/lo"
)

const (
	fullHousePoints = 25
	smallPoints     = 30
	largePoints     = 40
	crazeePoints    = 50
)

var (
	smallRuns = [][]int{{1, 2, 3, 4}, {2, 3, 4, 5}, {3, 4, 5, 6}}
	largeRuns = [][]int{{1, 2, 3, 4, 5}, {2, 3, 4, 5, 6}}
)

// Score returns the points c is worth for values.
func Score(c Category, values []int) (int, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	if c >= Ones && c <= Sixes {
		face := int(c)
		return lo.Sum(lo.Filter(values, func(v, _ int) bool { return v == face })), nil
	}
	if c == Chance {
		return lo.Sum(values), nil
	}
	if !satisfied(c, values) {
		return 0, nil
	}
	switch c {
	case ThreeKind, FourKind:
		return lo.Sum(values), nil
	case FullHouse:
		return fullHousePoints, nil
	case SmallStraight:
		return smallPoints, nil
	case LargeStraight:
		return largePoints, nil
	default: // Crazee
		return crazeePoints, nil
	}
}

// Satisfied reports whether values meet the structural condition of c.
func Satisfied(c Category, values []int) (bool, error) {
	if !c.Valid() {
		return false, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return satisfied(c, values), nil
}

func satisfied(c Category, values []int) bool {
	// A zero is a die that has not been rolled yet.
	if c != Chance && lo.Contains(values, 0) {
		return false
	}
	counts := lo.Values(lo.CountValues(values))
	switch c {
	case Ones, Twos, Threes, Fours, Fives, Sixes:
		return lo.Contains(values, int(c))
	case ThreeKind:
		return lo.Max(counts) >= 3
	case FourKind:
		return lo.Max(counts) >= 4
	case FullHouse:
		return lo.Contains(counts, 3) && lo.Contains(counts, 2)
	case SmallStraight:
		return anyRun(values, smallRuns)
	case LargeStraight:
		return anyRun(values, largeRuns)
	case Crazee:
		return len(values) > 0 && len(counts) == 1
	case Chance:
		return true
	}
	return false
}

// anyRun reports whether values contain every face of at least one run.
func anyRun(values []int, runs [][]int) bool {
	return lo.SomeBy(runs, func(run []int) bool { return lo.Every(values, run) })
}
