// Package rarechain decides which tier of each rare technology family a
// realm may be offered next.
package rarechain

import (
	"github.com/napolitain/techtree/internal/catalog"
	"github.com/napolitain/techtree/internal/models"
)

// Owner is the view of a realm's research state the resolver needs
type Owner interface {
	HasTech(name string) bool
	GetLevel(c models.Category) int
	Faction() models.FactionID
}

// Resolver filters rare families down to their pending tiers
type Resolver struct {
	catalog *catalog.Catalog
}

// New returns a resolver over cat's families
func New(cat *catalog.Catalog) *Resolver {
	return &Resolver{catalog: cat}
}

// Unlockable returns the rare tiers of category c that owner may discover
// now, at most one per family, in catalog family order.
//
// A tier qualifies when every earlier tier of its family is owned, it is
// not owned itself, its category is c, owner's level in c has reached the
// visibility level carried by the previous tier's chain link, and owner's
// faction is eligible. Family heads are never offered here; they arrive
// through grants.
func (r *Resolver) Unlockable(owner Owner, c models.Category) []string {
	var out []string
	for _, fam := range r.catalog.Families() {
		if name, ok := r.pending(owner, c, fam); ok {
			out = append(out, name)
		}
	}
	return out
}

func (r *Resolver) pending(owner Owner, c models.Category, fam catalog.Family) (string, bool) {
	for i, name := range fam.Tiers {
		if owner.HasTech(name) {
			continue
		}
		if i == 0 {
			return "", false
		}
		def, _ := r.catalog.Lookup(name)
		prev, _ := r.catalog.Lookup(fam.Tiers[i-1])
		if def.Category != c {
			return "", false
		}
		visible := prev.Chain.Level
		if visible == 0 {
			visible = def.Level
		}
		if owner.GetLevel(c) < visible || !def.Eligibility.Admits(owner.Faction()) {
			return "", false
		}
		return name, true
	}
	return "", false
}

// Pending returns the next unowned tier of every family whose head is
// owned, regardless of category or level. Useful for reports.
func (r *Resolver) Pending(owner Owner) []string {
	var out []string
	for _, fam := range r.catalog.Families() {
		for i, name := range fam.Tiers {
			if owner.HasTech(name) {
				continue
			}
			if i > 0 {
				out = append(out, name)
			}
			break
		}
	}
	return out
}
