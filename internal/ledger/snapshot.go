package ledger

import (
	"math"
	"slices"

	"github.com/napolitain/techtree/internal/catalog"
	"github.com/napolitain/techtree/internal/models"
)

// Snapshot is the persisted form of a Ledger. Only names are stored; the
// catalog re-resolves definitions on restore.
type Snapshot struct {
	Faction string                                          `cbor:"faction" json:"faction"`
	Slots   [models.NumCategories][models.MaxLevel][]string `cbor:"slots" json:"slots"`
	Levels  [models.NumCategories]int                       `cbor:"levels" json:"levels"`
	Focus   [models.NumCategories]int                       `cbor:"focus" json:"focus"`
	Points  [models.NumCategories]float64                   `cbor:"points" json:"points"`
}

// Snapshot captures the ledger state. Slot names are sorted so equal
// ledgers produce equal snapshots.
func (l *Ledger) Snapshot() Snapshot {
	s := Snapshot{
		Faction: string(l.faction),
		Levels:  l.levels,
		Focus:   l.focus,
		Points:  l.points,
	}
	for c := range l.slots {
		for level, names := range l.slots[c] {
			if len(names) == 0 {
				continue
			}
			sorted := slices.Clone(names)
			slices.Sort(sorted)
			s.Slots[c][level] = sorted
		}
	}
	return s
}

// Restore rebuilds a ledger from a snapshot. Names unknown to the catalog
// are logged and skipped. Known names are placed at the slot their
// definition names. Levels are clamped, an invalid focus split falls back
// to the default and unusable point totals become zero. Restoring never
// advances a level on its own.
func Restore(cat *catalog.Catalog, s Snapshot, opts ...Option) *Ledger {
	l := New(cat, models.FactionID(s.Faction), opts...)

	for c := range s.Slots {
		for level, names := range s.Slots[c] {
			for _, name := range names {
				def, ok := cat.Lookup(name)
				if !ok {
					l.logger.Warn("skipping unknown technology in save",
						"name", name, "category", models.Category(c), "level", level+1)
					continue
				}
				if def.Category != models.Category(c) || def.Level != level+1 {
					l.logger.Debug("moving technology to its catalog slot",
						"name", name, "category", def.Category, "level", def.Level)
				}
				l.place(def)
			}
		}
	}

	for _, c := range models.AllCategories() {
		l.levels.Set(c, models.ClampLevel(s.Levels[c]))

		p := s.Points[c]
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			l.logger.Warn("resetting invalid research points", "category", c, "points", p)
			p = 0
		}
		l.points.Set(c, p)
	}

	focus := models.CategoryInts(s.Focus)
	if err := l.SetFocusSplit(focus); err != nil {
		l.logger.Warn("resetting focus to default", "error", err)
		l.focus = models.DefaultFocus()
	}
	return l
}

// place records def as owned without any level side effects
func (l *Ledger) place(def models.TechDefinition) {
	if _, ok := l.owned[def.Name]; ok {
		return
	}
	l.slots[def.Category.Index()][def.Level-1] = append(l.slots[def.Category.Index()][def.Level-1], def.Name)
	l.owned[def.Name] = struct{}{}
}
