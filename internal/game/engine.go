// internal/game/engine.go
//
// Turn engine for a single Crazee game.
// Responsibilities:
//   - Own the dice of the current turn and the roll counter.
//   - Decide which categories are eligible for the current dice.
//   - Score a category, retire it, and advance turns until the game ends.
//
// State transitions:
//   AwaitingFirstRoll → AwaitingScoreOrReroll (Roll)
//   AwaitingScoreOrReroll → TurnComplete (SubmitScore)
//   TurnComplete → AwaitingFirstRoll (AdvanceTurn) or GameOver after the last turn
//   any → AwaitingFirstRoll (ResetGame)
//
// Every failing operation returns an error and leaves the engine untouched.
// An Engine is not safe for concurrent use; callers serialize access.
package game

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/EthanCarson/Crazy-Rolls/internal/dice"
)

const (
	// DefaultMaxTurns is one turn per category.
	DefaultMaxTurns = 13
	// MaxRolls is the number of rolls allowed per turn.
	MaxRolls = 3
)

// Policy decides what happens when a category the dice don't satisfy is
// submitted.
type Policy int

const (
	// PolicyReject fails the submission with ErrNoEligibleSelection.
	PolicyReject Policy = iota
	// PolicyZero accepts the submission and scores it 0.
	PolicyZero
)

// ParsePolicy maps "reject" / "zero" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "reject":
		return PolicyReject, nil
	case "zero":
		return PolicyZero, nil
	}
	return PolicyReject, fmt.Errorf("unknown scoring policy %q", s)
}

// RollSource yields the Roller for a given turn and roll index (0-based).
type RollSource func(turn, roll int) dice.Roller

// Engine is the turn/round state machine.
type Engine struct {
	maxTurns int
	policy   Policy
	roller   dice.Roller
	source   RollSource

	dice  *dice.Set
	turn  int
	rolls int
	total int
	used  map[Category]bool
	state State
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxTurns sets the number of scoring turns in a game. A game cannot
// outlast its score card, so n is capped at len(Categories).
func WithMaxTurns(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxTurns = min(n, len(Categories))
		}
	}
}

// WithPolicy sets the ineligible-submission policy.
func WithPolicy(p Policy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// WithRoller sets the randomness used for every roll.
func WithRoller(r dice.Roller) EngineOption {
	return func(e *Engine) { e.roller = r }
}

// WithRollSource picks a Roller per (turn, roll). It takes precedence over
// WithRoller, and makes a restored game roll exactly as the original would.
func WithRollSource(src RollSource) EngineOption {
	return func(e *Engine) { e.source = src }
}

// New constructs an engine at turn 1 awaiting the first roll.
func New(opts ...EngineOption) *Engine {
	e := &Engine{maxTurns: DefaultMaxTurns}
	for _, o := range opts {
		o(e)
	}
	if e.roller == nil {
		e.roller = dice.SystemRoller()
	}
	e.ResetGame()
	return e
}

// ResetGame starts a new game: turn 1, zero score, no used categories.
func (e *Engine) ResetGame() {
	e.turn = 1
	e.rolls = 0
	e.total = 0
	e.used = make(map[Category]bool)
	e.dice = dice.NewSet(e.roller)
	e.state = AwaitingFirstRoll
}

// Roll rolls all dice on the first roll of a turn, otherwise only the
// unreserved ones.
func (e *Engine) Roll() error {
	switch e.state {
	case GameOver:
		return ErrGameOver
	case TurnComplete:
		return ErrTurnComplete
	}
	if e.rolls >= MaxRolls {
		return ErrRollLimitExceeded
	}
	if e.source != nil {
		e.dice.SetRoller(e.source(e.turn, e.rolls))
	}
	if e.rolls == 0 {
		e.dice.RollAll()
	} else {
		e.dice.RollUnreserved()
	}
	e.rolls++
	e.state = AwaitingScoreOrReroll
	return nil
}

// ToggleReserved flips the reserved flag of a die. Unknown ids, and calls
// outside an active turn, are ignored.
func (e *Engine) ToggleReserved(id int) bool {
	if e.state == GameOver || e.state == TurnComplete {
		return false
	}
	return e.dice.ToggleReserved(id)
}

// EligibleCategories returns the unused categories the current dice satisfy,
// in score-card order. Nothing is eligible before the first roll or once the
// turn has been scored.
func (e *Engine) EligibleCategories() []Category {
	if e.state != AwaitingScoreOrReroll {
		return []Category{}
	}
	values := e.dice.Values()
	return lo.Filter(Categories, func(c Category, _ int) bool {
		return !e.used[c] && satisfied(c, values)
	})
}

// Eligible is EligibleCategories with the points each would score.
func (e *Engine) Eligible() []Option {
	values := e.dice.Values()
	return lo.Map(e.EligibleCategories(), func(c Category, _ int) Option {
		pts, _ := Score(c, values)
		return Option{Category: c, Points: pts}
	})
}

// ScoreFor returns the points c is worth for the current dice.
func (e *Engine) ScoreFor(c Category) (int, error) {
	return Score(c, e.dice.Values())
}

// SubmitScore scores c for this turn and retires it. It returns the points
// added.
func (e *Engine) SubmitScore(c Category) (int, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	switch e.state {
	case GameOver:
		return 0, ErrGameOver
	case TurnComplete:
		return 0, ErrTurnComplete
	}
	if e.used[c] {
		return 0, fmt.Errorf("%w: %s", ErrCategoryAlreadyUsed, c)
	}
	if e.state == AwaitingFirstRoll {
		return 0, fmt.Errorf("%w: dice not rolled", ErrNoEligibleSelection)
	}

	pts := 0
	if lo.Contains(e.EligibleCategories(), c) {
		pts, _ = e.ScoreFor(c)
	} else if e.policy == PolicyReject {
		return 0, fmt.Errorf("%w: %s", ErrNoEligibleSelection, c)
	}

	e.total += pts
	e.used[c] = true
	e.state = TurnComplete
	return pts, nil
}

// AdvanceTurn moves to the next turn with fresh dice, or to GameOver when
// the scored turn was the last one. Score and used categories are kept.
func (e *Engine) AdvanceTurn() error {
	switch e.state {
	case GameOver:
		return ErrGameOver
	case AwaitingFirstRoll, AwaitingScoreOrReroll:
		return ErrTurnInProgress
	}
	if e.turn+1 > e.maxTurns {
		e.state = GameOver
		return nil
	}
	e.turn++
	e.rolls = 0
	e.dice = dice.NewSet(e.roller)
	e.state = AwaitingFirstRoll
	return nil
}

// --------------------------------- queries ----------------------------------

func (e *Engine) State() State { return e.state }
func (e *Engine) TurnNumber() int { return e.turn }
func (e *Engine) RollsUsedThisTurn() int { return e.rolls }
func (e *Engine) RollsLeft() int { return MaxRolls - e.rolls }
func (e *Engine) TotalScore() int { return e.total }
func (e *Engine) MaxTurns() int { return e.maxTurns }
func (e *Engine) Values() []int { return e.dice.Values() }
func (e *Engine) Dice() [dice.Count]dice.Die { return e.dice.Dice() }
func (e *Engine) ActiveDice() []dice.Die { return e.dice.Active() }
func (e *Engine) ReservedDice() []dice.Die { return e.dice.Reserved() }

// UsedCategories returns the retired categories in score-card order.
func (e *Engine) UsedCategories() []Category {
	return lo.Filter(Categories, func(c Category, _ int) bool { return e.used[c] })
}

// IsUsed reports whether c has been scored this game.
func (e *Engine) IsUsed(c Category) bool { return e.used[c] }
