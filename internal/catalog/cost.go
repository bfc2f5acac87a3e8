package catalog

import (
	"fmt"

	"github.com/napolitain/techtree/internal/models"
)

// defaultBaseCosts is the research cost of levels 1-20 on a standard-length
// game. The last entry applies to every level beyond 20.
var defaultBaseCosts = [models.MaxLevel + 1]int{
	10, 20, 40, 60, 90, // 1-5
	130, 180, 240, 310, 390, 480, 580, // 6-12
	690, 810, 940, 1080, 1230, // 13-17
	1390, 1560, 1740, // 18-20
	2000, // beyond 20
}

// costBand groups levels that share a game-length adjustment
type costBand int

const (
	bandLow      costBand = iota // 1-5
	bandMid                      // 6-12
	bandHigh                     // 13-17
	bandVeryHigh                 // 18 and beyond
	numBands
)

func bandFor(level int) costBand {
	switch {
	case level <= 5:
		return bandLow
	case level <= 12:
		return bandMid
	case level <= 17:
		return bandHigh
	default:
		return bandVeryHigh
	}
}

// lengthAdjustments is the percentage added to the base cost per game length
// and band. Short games research cheaply early and pay a surcharge at the top
// of the tree; long games are the reverse.
var lengthAdjustments = [models.NumGameLengths][numBands]int{
	models.GameVeryShort: {-40, -25, 0, 25},
	models.GameShort:     {-25, -15, 0, 15},
	models.GameStandard:  {0, 0, 0, 0},
	models.GameLong:      {10, 5, 0, -10},
	models.GameVeryLong:  {20, 10, 0, -15},
	models.GameEpic:      {30, 15, 0, -20},
}

// costTable holds the final cost per game length and level (index 20 is
// beyond level 20).
type costTable [models.NumGameLengths][models.MaxLevel + 1]int

func newCostTable(base []int) (costTable, error) {
	costs := defaultBaseCosts
	if base != nil {
		if len(base) != models.MaxLevel && len(base) != models.MaxLevel+1 {
			return costTable{}, fmt.Errorf("%w: %d base costs, want %d or %d",
				ErrInvalidDefinition, len(base), models.MaxLevel, models.MaxLevel+1)
		}
		copy(costs[:], base)
		if len(base) == models.MaxLevel {
			costs[models.MaxLevel] = base[models.MaxLevel-1]
		}
		for i, v := range costs {
			if v <= 0 {
				return costTable{}, fmt.Errorf("%w: base cost of level %d is %d", ErrInvalidDefinition, i+1, v)
			}
		}
	}

	var t costTable
	for _, length := range models.AllGameLengths() {
		prev := 0
		for i, b := range costs {
			cost := b * (100 + lengthAdjustments[length][bandFor(i+1)]) / 100
			// Band edges may step down; keep the curve non-decreasing.
			cost = max(cost, prev, 1)
			t[length][i] = cost
			prev = cost
		}
	}
	return t, nil
}

// CostOf returns the research points needed to draw one technology at level.
// Levels above 20 use the open-ended top tier.
func (c *Catalog) CostOf(level int, length models.GameLength) int {
	if level < models.MinLevel {
		panic(fmt.Sprintf("catalog: cost level %d below %d", level, models.MinLevel))
	}
	return c.costs[length.Index()][min(level, models.MaxLevel+1)-1]
}
