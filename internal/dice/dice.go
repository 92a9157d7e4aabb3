// internal/dice/dice.go
//
// Five-die set used by the turn engine.
// Responsibilities:
//   - Hold the five dice of the current turn (value + reserved flag).
//   - Roll every die (first roll) or only unreserved dice (re-rolls).
//   - Expose read-only views: values, active dice, reserved dice.
//
// Notes:
//   - A value of 0 means "not rolled yet this turn".
//   - Draws go through Roller so tests and the daily mode can seed them.

package dice

import (
	"github.com/samber/lo"
	"lukechampine.com/frand"
)

// Count is the number of dice in a set.
const Count = 5

// Faces is the number of sides on each die.
const Faces = 6

// Roller is the randomness source for die draws.
type Roller interface {
	// Intn returns a uniform random int in [0, n).
	Intn(n int) int
}

// systemRoller draws from frand's package-level CSPRNG, whose Intn
// rejects out-of-range samples instead of truncating.
type systemRoller struct{}

func (systemRoller) Intn(n int) int { return frand.Intn(n) }

// SystemRoller returns the default Roller, safe for concurrent use.
func SystemRoller() Roller { return systemRoller{} }

// Seeded returns a deterministic Roller for a 32-byte seed.
// The result must not be shared between goroutines.
func Seeded(seed [32]byte) Roller {
	return frand.NewCustom(seed[:], 1024, 12)
}

// Die is a single die. Value is 0 until the die is rolled.
type Die struct {
	ID       int  `json:"id"`
	Value    int  `json:"value"`
	Reserved bool `json:"reserved"`
}

// Set is an ordered set of exactly Count dice.
type Set struct {
	dice   [Count]Die
	roller Roller
}

// NewSet returns five fresh, unrolled, unreserved dice.
// A nil roller falls back to SystemRoller.
func NewSet(r Roller) *Set {
	if r == nil {
		r = SystemRoller()
	}
	s := &Set{roller: r}
	for i := range s.dice {
		s.dice[i] = Die{ID: i}
	}
	return s
}

// FromDice rebuilds a set from saved dice. Ids are reassigned by position.
func FromDice(d [Count]Die, r Roller) *Set {
	s := NewSet(r)
	for i := range d {
		s.dice[i] = Die{ID: i, Value: d[i].Value, Reserved: d[i].Reserved}
	}
	return s
}

// SetRoller swaps the randomness source used by later rolls.
func (s *Set) SetRoller(r Roller) {
	if r != nil {
		s.roller = r
	}
}

func (s *Set) draw() int { return s.roller.Intn(Faces) + 1 }

// RollAll gives every die a new value. Reserved flags are left alone.
func (s *Set) RollAll() {
	for i := range s.dice {
		s.dice[i].Value = s.draw()
	}
}

// RollUnreserved gives a new value to each die that is not reserved.
func (s *Set) RollUnreserved() {
	for i := range s.dice {
		if !s.dice[i].Reserved {
			s.dice[i].Value = s.draw()
		}
	}
}

// ToggleReserved flips the reserved flag of die id.
// Unknown ids are ignored; the return value reports whether a die was found.
func (s *Set) ToggleReserved(id int) bool {
	if id < 0 || id >= Count {
		return false
	}
	s.dice[id].Reserved = !s.dice[id].Reserved
	return true
}

// Values returns the current die values in order.
func (s *Set) Values() []int {
	return lo.Map(s.dice[:], func(d Die, _ int) int { return d.Value })
}

// Rolled reports whether every die carries a value.
func (s *Set) Rolled() bool {
	return lo.EveryBy(s.dice[:], func(d Die) bool { return d.Value != 0 })
}

// Dice returns a copy of all dice in order.
func (s *Set) Dice() [Count]Die { return s.dice }

// Active returns the dice that will be re-rolled, in order.
func (s *Set) Active() []Die {
	return lo.Filter(s.dice[:], func(d Die, _ int) bool { return !d.Reserved })
}

// Reserved returns the dice held back from re-rolls, in order.
func (s *Set) Reserved() []Die {
	return lo.Filter(s.dice[:], func(d Die, _ int) bool { return d.Reserved })
}
