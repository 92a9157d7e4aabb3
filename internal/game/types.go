// internal/game/types.go
//
// Core type definitions for the Crazee turn engine.
// Defines:
//   - Category: the 13 scoring categories, usable once per game.
//   - State: where the current turn is in its roll/score cycle.
//   - The error taxonomy returned by engine operations.

package game

import (
	"errors"
	"fmt"
)

// Category is one scoring rule on the score card.
type Category int

const (
	Ones Category = iota + 1
	Twos
	Threes
	Fours
	Fives
	Sixes
	ThreeKind
	FourKind
	FullHouse
	SmallStraight
	LargeStraight
	Chance
	Crazee
)

// Categories lists every category in score-card order.
var Categories = []Category{
	Ones, Twos, Threes, Fours, Fives, Sixes,
	ThreeKind, FourKind, FullHouse, SmallStraight, LargeStraight, Chance, Crazee,
}

var categoryNames = map[Category]string{
	Ones:          "1",
	Twos:          "2",
	Threes:        "3",
	Fours:         "4",
	Fives:         "5",
	Sixes:         "6",
	ThreeKind:     "threeKind",
	FourKind:      "fourKind",
	FullHouse:     "fullHouse",
	SmallStraight: "small",
	LargeStraight: "large",
	Chance:        "chance",
	Crazee:        "crazee",
}

// Valid reports whether c is one of the 13 categories.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// String returns the score-card key ("1".."6", "threeKind", ...).
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps a score-card key back to its Category.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalText encodes a category as its score-card key.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a score-card key.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// State is the position of the engine in the turn cycle.
type State int

const (
	AwaitingFirstRoll State = iota
	AwaitingScoreOrReroll
	TurnComplete
	GameOver
)

var stateNames = map[State]string{
	AwaitingFirstRoll:     "awaiting_first_roll",
	AwaitingScoreOrReroll: "awaiting_score_or_reroll",
	TurnComplete:          "turn_complete",
	GameOver:              "game_over",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	for st, n := range stateNames {
		if n == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("%w: unknown state %q", ErrInvalidSnapshot, string(b))
}

// Errors returned by engine operations. A failed operation never changes
// engine state.
var (
	ErrRollLimitExceeded   = errors.New("no rolls left this turn")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrCategoryAlreadyUsed = errors.New("category already used")
	ErrNoEligibleSelection = errors.New("dice do not satisfy category")
	ErrInvalidSnapshot     = errors.New("invalid snapshot")
	ErrGameOver            = errors.New("game is over")
	ErrTurnComplete        = errors.New("turn already scored")
	ErrTurnInProgress      = errors.New("turn not scored yet")
)

// Option pairs an eligible category with the points it would score now.
type Option struct {
	Category Category `json:"category"`
	Points   int      `json:"points"`
}
