// Package catalog is the read-only registry of technology definitions.
//
// A Catalog is immutable once New returns, so a single instance can be
// shared by every realm of a game session and read concurrently.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/napolitain/techtree/internal/models"
)

// ErrInvalidDefinition is returned by New for definitions that cannot be placed
var ErrInvalidDefinition = errors.New("catalog: invalid definition")

// Family is an ordered rare-technology chain
type Family struct {
	Name  string
	Tiers []string // tier 1 first
}

// Catalog answers lookups over all technology definitions
type Catalog struct {
	byName   map[string]models.TechDefinition
	slots    [models.NumCategories][models.MaxLevel][]models.TechDefinition // ordinary pool, catalog order
	rare     []models.TechDefinition
	families []Family
	factions []models.FactionID
	names    []string // sorted
	costs    costTable
}

// Option configures a Catalog
type Option func(*config)

type config struct {
	baseCosts []int
	factions  []models.FactionID
}

// WithBaseCosts overrides the research cost of levels 1-20. An optional
// 21st value is the cost beyond level 20. Game-length adjustments still apply.
func WithBaseCosts(costs []int) Option {
	return func(c *config) {
		c.baseCosts = costs
	}
}

// WithFactions records the factions known to the game
func WithFactions(factions ...models.FactionID) Option {
	return func(c *config) {
		c.factions = factions
	}
}

// New validates defs and builds a catalog
func New(defs []models.TechDefinition, opts ...Option) (*Catalog, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	costs, err := newCostTable(cfg.baseCosts)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		byName:   make(map[string]models.TechDefinition, len(defs)),
		costs:    costs,
		factions: slices.Clone(cfg.factions),
	}

	for _, def := range defs {
		if err := validate(def); err != nil {
			return nil, err
		}
		if _, dup := c.byName[def.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidDefinition, def.Name)
		}
		c.byName[def.Name] = def
		c.names = append(c.names, def.Name)

		if def.Rare {
			c.rare = append(c.rare, def)
			continue
		}
		slot := &c.slots[def.Category][def.Level-1]
		*slot = append(*slot, def)
	}
	slices.Sort(c.names)

	if err := c.buildFamilies(); err != nil {
		return nil, err
	}
	return c, nil
}

func validate(def models.TechDefinition) error {
	switch {
	case def.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidDefinition)
	case !def.Category.Valid():
		return fmt.Errorf("%w: %q has category %d", ErrInvalidDefinition, def.Name, int(def.Category))
	case def.Level < models.MinLevel || def.Level > models.MaxLevel:
		return fmt.Errorf("%w: %q has level %d", ErrInvalidDefinition, def.Name, def.Level)
	case def.HasChain() && def.Family == "":
		return fmt.Errorf("%w: %q links to %q without a family", ErrInvalidDefinition, def.Name, def.Chain.Next)
	}
	return nil
}

// buildFamilies orders each family's tiers by following chain links from
// the tier nothing points at.
func (c *Catalog) buildFamilies() error {
	members := make(map[string][]models.TechDefinition)
	var order []string
	for _, name := range c.definitionOrder() {
		def := c.byName[name]
		if def.Family == "" {
			continue
		}
		if _, seen := members[def.Family]; !seen {
			order = append(order, def.Family)
		}
		members[def.Family] = append(members[def.Family], def)
	}

	for _, family := range order {
		defs := members[family]
		pointed := make(map[string]bool, len(defs))
		for _, def := range defs {
			if !def.HasChain() {
				continue
			}
			next, ok := c.byName[def.Chain.Next]
			if !ok || next.Family != family {
				return fmt.Errorf("%w: %q links to %q outside family %q",
					ErrInvalidDefinition, def.Name, def.Chain.Next, family)
			}
			pointed[next.Name] = true
		}

		var head string
		for _, def := range defs {
			if !pointed[def.Name] {
				if head != "" {
					return fmt.Errorf("%w: family %q has two heads (%q, %q)",
						ErrInvalidDefinition, family, head, def.Name)
				}
				head = def.Name
			}
		}
		if head == "" {
			return fmt.Errorf("%w: family %q is a cycle", ErrInvalidDefinition, family)
		}

		tiers := []string{head}
		for cur := c.byName[head]; cur.HasChain(); cur = c.byName[cur.Chain.Next] {
			if len(tiers) > len(defs) {
				return fmt.Errorf("%w: family %q is a cycle", ErrInvalidDefinition, family)
			}
			tiers = append(tiers, cur.Chain.Next)
		}
		if len(tiers) != len(defs) {
			return fmt.Errorf("%w: family %q has %d tiers but %d members",
				ErrInvalidDefinition, family, len(tiers), len(defs))
		}
		c.families = append(c.families, Family{Name: family, Tiers: tiers})
	}
	return nil
}

// definitionOrder returns names in catalog order: slots by category and
// level, then rare definitions.
func (c *Catalog) definitionOrder() []string {
	var order []string
	for cat := range c.slots {
		for level := range c.slots[cat] {
			for _, def := range c.slots[cat][level] {
				order = append(order, def.Name)
			}
		}
	}
	for _, def := range c.rare {
		order = append(order, def.Name)
	}
	return order
}

// Lookup resolves a technology by exact name
func (c *Catalog) Lookup(name string) (models.TechDefinition, bool) {
	def, ok := c.byName[name]
	return def, ok
}

// ListEligible returns the names of the ordinary technologies at a slot that
// faction may research, in catalog order. Rare technologies are never listed.
func (c *Catalog) ListEligible(cat models.Category, level int, faction models.FactionID) []string {
	models.CheckLevel(level)
	slot := c.slots[cat.Index()][level-1]
	names := make([]string, 0, len(slot))
	for _, def := range slot {
		if def.Eligibility.Admits(faction) {
			names = append(names, def.Name)
		}
	}
	return names
}

// Slot returns every ordinary definition at a slot regardless of eligibility
func (c *Catalog) Slot(cat models.Category, level int) []models.TechDefinition {
	models.CheckLevel(level)
	return slices.Clone(c.slots[cat.Index()][level-1])
}

// Rare returns the rare definitions in catalog order
func (c *Catalog) Rare() []models.TechDefinition {
	return slices.Clone(c.rare)
}

// Families returns the rare families in catalog order
func (c *Catalog) Families() []Family {
	out := make([]Family, len(c.families))
	for i, f := range c.families {
		out[i] = Family{Name: f.Name, Tiers: slices.Clone(f.Tiers)}
	}
	return out
}

// Factions returns the factions the catalog was built with
func (c *Catalog) Factions() []models.FactionID {
	return slices.Clone(c.factions)
}

// KnowsFaction reports whether faction was declared. A catalog built without
// a faction list knows every faction.
func (c *Catalog) KnowsFaction(faction models.FactionID) bool {
	return len(c.factions) == 0 || slices.Contains(c.factions, faction)
}

// Names returns all technology names sorted alphabetically
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of definitions
func (c *Catalog) Len() int {
	return len(c.byName)
}
