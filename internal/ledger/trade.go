package ledger

import (
	"fmt"

	"github.com/napolitain/techtree/internal/models"
)

// Grant gives the realm a technology by name outside of research, as
// through a trade, a treaty or a found relic. Granting an owned name is a
// no-op.
func (l *Ledger) Grant(name string) error {
	def, ok := l.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	l.AddTech(def)
	return nil
}

// TradeCandidates returns the technologies this realm could hand to other:
// owned here, tradeable, not owned there and eligible for other's faction.
// Names come in research order, lowest level first.
func (l *Ledger) TradeCandidates(other *Ledger) []string {
	var out []string
	for _, c := range models.AllCategories() {
		for _, name := range l.GetListForType(c) {
			if other.HasTech(name) {
				continue
			}
			def, ok := l.catalog.Lookup(name)
			if !ok || !def.Tradeable || def.Rare {
				continue
			}
			if !def.Eligibility.Admits(other.faction) {
				continue
			}
			out = append(out, name)
		}
	}
	return out
}
