// Package ledger holds the research state of one realm: owned technologies
// per slot, unlocked level, focus split and accumulated research points.
//
// A Ledger belongs to exactly one realm and is not safe for concurrent
// mutation. The Catalog it references is shared read-only.
package ledger

import (
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/napolitain/techtree/internal/catalog"
	"github.com/napolitain/techtree/internal/models"
)

// ErrNotFound is returned when a technology name is not in the catalog
var ErrNotFound = errors.New("ledger: technology not found")

// Ledger is the research state of a realm
type Ledger struct {
	catalog *catalog.Catalog
	faction models.FactionID
	logger  *slog.Logger

	// Owned names per slot in acquisition order
	slots [models.NumCategories][models.MaxLevel][]string
	owned map[string]struct{}

	levels models.CategoryInts
	focus  models.CategoryInts
	points models.CategoryFloats
}

// Option configures a Ledger
type Option func(*Ledger)

// WithLogger sets the logger used for restore warnings
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an empty ledger at level 1 everywhere with the default focus
func New(cat *catalog.Catalog, faction models.FactionID, opts ...Option) *Ledger {
	l := &Ledger{
		catalog: cat,
		faction: faction,
		logger:  slog.Default(),
		owned:   make(map[string]struct{}),
		focus:   models.DefaultFocus(),
	}
	for _, c := range models.AllCategories() {
		l.levels.Set(c, models.MinLevel)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Catalog returns the catalog the ledger resolves names against
func (l *Ledger) Catalog() *catalog.Catalog {
	return l.catalog
}

// Faction returns the owning realm's faction
func (l *Ledger) Faction() models.FactionID {
	return l.faction
}

// AddTech records def as owned. Adding an owned name is a no-op. When the
// slot becomes full at the category's current level, the level advances.
// Reports whether the name was newly added.
func (l *Ledger) AddTech(def models.TechDefinition) bool {
	c := def.Category
	models.CheckLevel(def.Level)
	if _, ok := l.owned[def.Name]; ok {
		return false
	}

	l.slots[c.Index()][def.Level-1] = append(l.slots[c.Index()][def.Level-1], def.Name)
	l.owned[def.Name] = struct{}{}

	if l.levels.Get(c) == def.Level && l.IsFull(c, def.Level) {
		l.levels.Set(c, min(def.Level+1, models.MaxLevel))
	}
	return true
}

// HasTech reports whether name is owned
func (l *Ledger) HasTech(name string) bool {
	_, ok := l.owned[name]
	return ok
}

// HasTechFamily reports whether any owned name starts with prefix
func (l *Ledger) HasTechFamily(prefix string) bool {
	for name := range l.owned {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// GetLevel returns the unlocked level of a category
func (l *Ledger) GetLevel(c models.Category) int {
	return l.levels[c.Index()]
}

// SetLevel raises the unlocked level of a category, clamped to [1,20].
// Levels never decrease; a lower value is ignored.
func (l *Ledger) SetLevel(c models.Category, level int) {
	level = models.ClampLevel(level)
	if level > l.levels[c.Index()] {
		l.levels[c.Index()] = level
	}
}

// Levels returns all unlocked levels
func (l *Ledger) Levels() models.CategoryInts {
	return l.levels
}

// GetPoints returns the accumulated research points of a category
func (l *Ledger) GetPoints(c models.Category) float64 {
	return l.points[c.Index()]
}

// Accumulate adds research points to a category. Negative or NaN amounts
// are ignored.
func (l *Ledger) Accumulate(c models.Category, points float64) {
	if !(points > 0) || math.IsInf(points, 0) {
		return
	}
	l.points.Add(c, points)
}

// Spend subtracts cost from a category's accumulator if it holds enough
func (l *Ledger) Spend(c models.Category, cost float64) bool {
	if cost < 0 || l.points[c.Index()] < cost {
		return false
	}
	l.points[c.Index()] -= cost
	return true
}

// GetMissing returns the eligible names at a slot that are not owned, in
// catalog order
func (l *Ledger) GetMissing(c models.Category, level int) []string {
	eligible := l.catalog.ListEligible(c, level, l.faction)
	missing := eligible[:0]
	for _, name := range eligible {
		if !l.HasTech(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// IsFull reports whether every eligible name at a slot is owned
func (l *Ledger) IsFull(c models.Category, level int) bool {
	for _, name := range l.catalog.ListEligible(c, level, l.faction) {
		if !l.HasTech(name) {
			return false
		}
	}
	return true
}

// GetOwnedAt returns the names owned at a slot in acquisition order
func (l *Ledger) GetOwnedAt(c models.Category, level int) []string {
	models.CheckLevel(level)
	return slices.Clone(l.slots[c.Index()][level-1])
}

// GetListForType returns every name owned in a category, lowest level first
func (l *Ledger) GetListForType(c models.Category) []string {
	var names []string
	for _, slot := range l.slots[c.Index()] {
		names = append(names, slot...)
	}
	return names
}

// Owned returns every owned name sorted alphabetically
func (l *Ledger) Owned() []string {
	names := make([]string, 0, len(l.owned))
	for name := range l.owned {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TechCount returns the number of owned technologies
func (l *Ledger) TechCount() int {
	return len(l.owned)
}

// CountIn returns the number of owned technologies in a category
func (l *Ledger) CountIn(c models.Category) int {
	n := 0
	for _, slot := range l.slots[c.Index()] {
		n += len(slot)
	}
	return n
}

// Progress returns the mean unlocked level across categories
func (l *Ledger) Progress() float64 {
	return float64(l.levels.Sum()) / models.NumCategories
}

// Clone returns a deep copy sharing only the catalog
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		catalog: l.catalog,
		faction: l.faction,
		logger:  l.logger,
		owned:   make(map[string]struct{}, len(l.owned)),
		levels:  l.levels,
		focus:   l.focus,
		points:  l.points,
	}
	for cat := range l.slots {
		for level := range l.slots[cat] {
			c.slots[cat][level] = slices.Clone(l.slots[cat][level])
		}
	}
	for name := range l.owned {
		c.owned[name] = struct{}{}
	}
	return c
}
