package models

import (
	"fmt"
	"strings"
)

// Game mechanics constants
const (
	// MinLevel and MaxLevel bound the per-category research level
	MinLevel = 1
	MaxLevel = 20

	// FocusTotal is the sum every focus split must keep
	FocusTotal = 100

	// FocusQuantum is the step used when redistributing focus
	FocusQuantum = 4
)

// DefaultFocus returns the focus split of a freshly created realm
func DefaultFocus() CategoryInts {
	return CategoryInts{16, 16, 16, 16, 16, 20}
}

// GameLength is the configured game-length bucket that shifts research costs
type GameLength int

const (
	GameVeryShort GameLength = iota
	GameShort
	GameStandard
	GameLong
	GameVeryLong
	GameEpic
)

// NumGameLengths is the number of game-length buckets
const NumGameLengths = 6

var gameLengthNames = [NumGameLengths]string{
	"very-short", "short", "standard", "long", "very-long", "epic",
}

// gameLengthTurns is the upper bound (inclusive) on max turns per bucket
var gameLengthTurns = [NumGameLengths - 1]int{200, 300, 400, 600, 800}

// AllGameLengths returns all buckets from shortest to longest
func AllGameLengths() []GameLength {
	return []GameLength{GameVeryShort, GameShort, GameStandard, GameLong, GameVeryLong, GameEpic}
}

// GameLengthForTurns maps a configured maximum turn count to its bucket.
// Non-positive counts mean "not configured" and map to GameStandard.
func GameLengthForTurns(maxTurns int) GameLength {
	if maxTurns <= 0 {
		return GameStandard
	}
	for i, limit := range gameLengthTurns {
		if maxTurns <= limit {
			return GameLength(i)
		}
	}
	return GameEpic
}

// Index returns g as a table index and panics on an undefined bucket
func (g GameLength) Index() int {
	if g < GameVeryShort || g > GameEpic {
		panic(fmt.Sprintf("models: game length %d out of range [0,%d)", int(g), NumGameLengths))
	}
	return int(g)
}

// String returns the bucket name
func (g GameLength) String() string {
	if g < GameVeryShort || g > GameEpic {
		return fmt.Sprintf("length(%d)", int(g))
	}
	return gameLengthNames[g]
}

// ParseGameLength parses a bucket name
func ParseGameLength(s string) (GameLength, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range gameLengthNames {
		if name == want {
			return GameLength(i), nil
		}
	}
	return 0, fmt.Errorf("unknown game length %q", s)
}
