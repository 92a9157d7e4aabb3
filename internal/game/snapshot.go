// internal/game/snapshot.go
//
// Save/resume contract for an Engine.
//   - Snapshot is the JSON document persisted between requests/sessions.
//   - Restore validates a snapshot completely before touching engine state.
//   - Persistence is the collaborator that stores one snapshot (a save slot).

package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/EthanCarson/Crazy-Rolls/internal/dice"
)

// SavedDie is a die as persisted; its id is its position.
type SavedDie struct {
	Value    int  `json:"value"`
	Reserved bool `json:"reserved"`
}

// Snapshot is the full user-visible game state.
//
// State is optional: when absent it is derived from RollsUsedThisTurn, which
// cannot express TurnComplete or GameOver.
type Snapshot struct {
	Dice              []SavedDie `json:"dice"`
	TotalScore        int        `json:"totalScore"`
	TurnNumber        int        `json:"turnNumber"`
	RollsUsedThisTurn int        `json:"rollsUsedThisTurn"`
	UsedCategories    []Category `json:"usedCategories"`
	State             *State     `json:"state,omitempty"`
}

// Persistence loads and saves a single game's snapshot.
type Persistence interface {
	// Load returns the saved snapshot, or nil if nothing is saved.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

// Snapshot captures the engine state.
func (e *Engine) Snapshot() Snapshot {
	st := e.state
	ds := e.dice.Dice()
	return Snapshot{
		Dice: lo.Map(ds[:], func(d dice.Die, _ int) SavedDie {
			return SavedDie{Value: d.Value, Reserved: d.Reserved}
		}),
		TotalScore:        e.total,
		TurnNumber:        e.turn,
		RollsUsedThisTurn: e.rolls,
		UsedCategories:    e.UsedCategories(),
		State:             &st,
	}
}

// Validate checks s against this engine's rules and returns the state the
// engine would be in after restoring it.
func (e *Engine) Validate(s Snapshot) (State, error) {
	bad := func(format string, args ...any) (State, error) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
	}
	if len(s.Dice) != dice.Count {
		return bad("want %d dice, got %d", dice.Count, len(s.Dice))
	}
	for i, d := range s.Dice {
		if d.Value < 0 || d.Value > dice.Faces {
			return bad("die %d has value %d", i, d.Value)
		}
	}
	if s.TurnNumber < 1 || s.TurnNumber > e.maxTurns {
		return bad("turn %d outside 1..%d", s.TurnNumber, e.maxTurns)
	}
	if s.RollsUsedThisTurn < 0 || s.RollsUsedThisTurn > MaxRolls {
		return bad("rolls %d outside 0..%d", s.RollsUsedThisTurn, MaxRolls)
	}
	if s.TotalScore < 0 {
		return bad("negative score %d", s.TotalScore)
	}
	for _, c := range s.UsedCategories {
		if !c.Valid() {
			return bad("unknown category %d", int(c))
		}
	}
	if len(lo.Uniq(s.UsedCategories)) != len(s.UsedCategories) {
		return bad("duplicate used category")
	}

	rolled := lo.EveryBy(s.Dice, func(d SavedDie) bool { return d.Value != 0 })
	unrolled := lo.EveryBy(s.Dice, func(d SavedDie) bool { return d.Value == 0 })
	if s.RollsUsedThisTurn > 0 && !rolled {
		return bad("rolled turn with unset dice")
	}
	if s.RollsUsedThisTurn == 0 && !unrolled {
		return bad("dice set before the first roll")
	}

	// One category is retired per scored turn, so the used count pins down
	// whether the current turn has been scored yet.
	used := len(s.UsedCategories)
	state := AwaitingFirstRoll
	switch {
	case used == s.TurnNumber-1 && s.RollsUsedThisTurn > 0:
		state = AwaitingScoreOrReroll
	case used == s.TurnNumber-1:
	case used == s.TurnNumber && s.RollsUsedThisTurn > 0:
		state = TurnComplete
	default:
		return bad("%d used categories at turn %d with %d rolls", used, s.TurnNumber, s.RollsUsedThisTurn)
	}
	if s.State == nil {
		return state, nil
	}
	switch *s.State {
	case AwaitingFirstRoll, AwaitingScoreOrReroll, TurnComplete:
		if *s.State != state {
			return bad("state %s disagrees with turn %d, %d rolls, %d used",
				*s.State, s.TurnNumber, s.RollsUsedThisTurn, used)
		}
	case GameOver:
		if state != TurnComplete || s.TurnNumber != e.maxTurns {
			return bad("game over at turn %d of %d with %d used", s.TurnNumber, e.maxTurns, used)
		}
		state = GameOver
	default:
		return bad("unknown state %d", int(*s.State))
	}
	return state, nil
}

// Restore replaces the engine state with s. On error nothing changes.
func (e *Engine) Restore(s Snapshot) error {
	state, err := e.Validate(s)
	if err != nil {
		return err
	}
	var ds [dice.Count]dice.Die
	for i, d := range s.Dice {
		ds[i] = dice.Die{ID: i, Value: d.Value, Reserved: d.Reserved}
	}
	e.dice = dice.FromDice(ds, e.roller)
	e.total = s.TotalScore
	e.turn = s.TurnNumber
	e.rolls = s.RollsUsedThisTurn
	e.used = lo.SliceToMap(s.UsedCategories, func(c Category) (Category, bool) { return c, true })
	e.state = state
	return nil
}

// LoadFrom restores the engine from p. It reports whether a snapshot was
// applied. A malformed snapshot yields ErrInvalidSnapshot and leaves the
// engine as it was.
func (e *Engine) LoadFrom(ctx context.Context, p Persistence) (bool, error) {
	s, err := p.Load(ctx)
	if err != nil {
		return false, err
	}
	if s == nil {
		return false, nil
	}
	if err := e.Restore(*s); err != nil {
		return false, err
	}
	return true, nil
}

// SaveTo writes the current snapshot to p.
func (e *Engine) SaveTo(ctx context.Context, p Persistence) error {
	if err := p.Save(ctx, e.Snapshot()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// IsInvalidSnapshot reports whether err came from snapshot validation,
// including a snapshot whose JSON could not be decoded.
func IsInvalidSnapshot(err error) bool { return errors.Is(err, ErrInvalidSnapshot) }
