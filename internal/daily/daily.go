package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/EthanCarson/Crazy-Rolls/internal/dice"
	"github.com/EthanCarson/Crazy-Rolls/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the dice seed for one roll of the daily game:
// HMAC-SHA256(salt, "YYYY-MM-DD/turn/roll").
func Seed(date string, salt string, turn, roll int) [32]byte {
	h := hmac.New(sha256.New, []byte(salt))
	fmt.Fprintf(h, "%s/%d/%d", date, turn, roll)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// RollSource gives every player the same dice for the same date, turn and
// roll, and survives save/restore because each roll is seeded on its own.
func RollSource(date, salt string) game.RollSource {
	return func(turn, roll int) dice.Roller {
		return dice.Seeded(Seed(date, salt, turn, roll))
	}
}
