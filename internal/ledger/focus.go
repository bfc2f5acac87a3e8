package ledger

import (
	"errors"
	"fmt"

	"github.com/napolitain/techtree/internal/models"
)

// ErrInvalidFocus is returned by SetFocusSplit for splits that do not sum to 100
var ErrInvalidFocus = errors.New("ledger: invalid focus split")

// GetFocus returns the focus percentage of a category
func (l *Ledger) GetFocus(c models.Category) int {
	return l.focus[c.Index()]
}

// Focus returns the whole focus split
func (l *Ledger) Focus() models.CategoryInts {
	return l.focus
}

// SetFocus sets one category's focus, clamped to [0,100], and spreads the
// difference over the other five so the split still sums to 100.
//
// Growth goes first to categories below the average of the remainder, then
// to those at the average, then to any category. Shrinking takes from
// categories above the average, then at it, then from any with focus left.
// Each pass walks categories in research order and moves at most
// FocusQuantum per category per sweep.
func (l *Ledger) SetFocus(c models.Category, value int) {
	idx := c.Index()
	value = min(max(value, 0), models.FocusTotal)
	l.focus[idx] = value

	others := make([]int, 0, models.NumCategories-1)
	for i := range l.focus {
		if i != idx {
			others = append(others, i)
		}
	}

	target := models.FocusTotal - value // what the others must sum to
	sum := 0
	for _, i := range others {
		sum += l.focus[i]
	}
	n := len(others)

	below := func(f int) bool { return f*n < target }
	at := func(f int) bool { return f*n == target }
	above := func(f int) bool { return f*n > target }
	anyFocus := func(int) bool { return true }
	positive := func(f int) bool { return f > 0 }

	if remaining := target - sum; remaining > 0 {
		for _, pass := range []func(int) bool{below, at, anyFocus} {
			remaining = l.sweep(others, pass, remaining, 1)
		}
	} else if remaining < 0 {
		deficit := -remaining
		for _, pass := range []func(int) bool{above, at, positive} {
			deficit = l.sweep(others, pass, deficit, -1)
		}
	}
}

// sweep repeatedly walks others, moving up to a quantum into (sign 1) or out
// of (sign -1) each category matching pass, until amount is exhausted or a
// full walk moves nothing. Returns what is left of amount.
func (l *Ledger) sweep(others []int, pass func(int) bool, amount, sign int) int {
	for amount > 0 {
		moved := false
		for _, i := range others {
			if amount == 0 {
				break
			}
			if !pass(l.focus[i]) {
				continue
			}
			step := min(models.FocusQuantum, amount)
			if sign < 0 {
				step = min(step, l.focus[i])
			}
			if step == 0 {
				continue
			}
			l.focus[i] += sign * step
			amount -= step
			moved = true
		}
		if !moved {
			break
		}
	}
	return amount
}

// SetFocusSplit replaces the whole focus split. Values must be
// non-negative and sum to 100.
func (l *Ledger) SetFocusSplit(split models.CategoryInts) error {
	for _, c := range models.AllCategories() {
		if split.Get(c) < 0 {
			return fmt.Errorf("%w: %s focus is %d", ErrInvalidFocus, c, split.Get(c))
		}
	}
	if sum := split.Sum(); sum != models.FocusTotal {
		return fmt.Errorf("%w: sums to %d", ErrInvalidFocus, sum)
	}
	l.focus = split
	return nil
}
