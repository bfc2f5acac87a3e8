package rarechain

import (
	"slices"
	"testing"

	"github.com/napolitain/techtree/internal/catalog"
	"github.com/napolitain/techtree/internal/models"
)

type fakeOwner struct {
	owned   map[string]bool
	levels  models.CategoryInts
	faction models.FactionID
}

func newOwner(faction models.FactionID, owned ...string) *fakeOwner {
	o := &fakeOwner{owned: make(map[string]bool), faction: faction}
	for i := range o.levels {
		o.levels[i] = 1
	}
	for _, n := range owned {
		o.owned[n] = true
	}
	return o
}

func (o *fakeOwner) HasTech(name string) bool { return o.owned[name] }
func (o *fakeOwner) GetLevel(c models.Category) int { return o.levels.Get(c) }
func (o *fakeOwner) Faction() models.FactionID { return o.faction }

func tier(name, family string, c models.Category, level int, next string, nextLevel int) models.TechDefinition {
	return models.TechDefinition{
		Name: name, Category: c, Level: level, Rare: true, Family: family,
		Chain: models.ChainLink{Next: next, Level: nextLevel},
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	bug := tier("Bug swarm Mk2", "Bug swarm", models.Combat, 3, "", 0)
	bug.Eligibility = models.OnlyFor("insectoid")

	cat, err := catalog.New([]models.TechDefinition{
		{Name: "Laser Mk1", Category: models.Combat, Level: 1},
		tier("Lance Mk1", "Lance", models.Combat, 1, "Lance Mk2", 4),
		tier("Lance Mk2", "Lance", models.Combat, 4, "Lance Mk3", 9),
		tier("Lance Mk3", "Lance", models.Combat, 9, "", 0),
		tier("Hull Mk1", "Hull", models.Hulls, 2, "Hull Mk2", 0),
		tier("Hull Mk2", "Hull", models.Hulls, 6, "", 0),
		tier("Mixed Mk1", "Mixed", models.Combat, 1, "Mixed Mk2", 1),
		tier("Mixed Mk2", "Mixed", models.Defense, 1, "", 0),
		tier("Bug swarm Mk1", "Bug swarm", models.Combat, 1, "Bug swarm Mk2", 1),
		bug,
	})
	if err != nil {
		t.Fatalf("catalog.New() failed: %v", err)
	}
	return cat
}

func TestUnlockable(t *testing.T) {
	r := New(testCatalog(t))

	tests := []struct {
		name   string
		owner  *fakeOwner
		levels map[models.Category]int
		cat    models.Category
		want   []string
	}{
		{
			name:   "head not owned offers nothing",
			owner:  newOwner("terran"),
			levels: map[models.Category]int{models.Combat: 20},
			cat:    models.Combat,
		},
		{
			name:   "next tier waits for its visibility level",
			owner:  newOwner("terran", "Lance Mk1"),
			levels: map[models.Category]int{models.Combat: 3},
			cat:    models.Combat,
		},
		{
			name:   "next tier offered once visible",
			owner:  newOwner("terran", "Lance Mk1"),
			levels: map[models.Category]int{models.Combat: 4},
			cat:    models.Combat,
			want:   []string{"Lance Mk2"},
		},
		{
			name:   "tier three needs tier two",
			owner:  newOwner("terran", "Lance Mk1"),
			levels: map[models.Category]int{models.Combat: 12},
			cat:    models.Combat,
			want:   []string{"Lance Mk2"},
		},
		{
			name:   "tier three after tier two",
			owner:  newOwner("terran", "Lance Mk1", "Lance Mk2"),
			levels: map[models.Category]int{models.Combat: 12},
			cat:    models.Combat,
			want:   []string{"Lance Mk3"},
		},
		{
			name:   "exhausted family offers nothing",
			owner:  newOwner("terran", "Lance Mk1", "Lance Mk2", "Lance Mk3"),
			levels: map[models.Category]int{models.Combat: 20},
			cat:    models.Combat,
		},
		{
			name:   "missing link level falls back to tier level",
			owner:  newOwner("terran", "Hull Mk1"),
			levels: map[models.Category]int{models.Hulls: 6},
			cat:    models.Hulls,
			want:   []string{"Hull Mk2"},
		},
		{
			name:   "missing link level not yet reached",
			owner:  newOwner("terran", "Hull Mk1"),
			levels: map[models.Category]int{models.Hulls: 5},
			cat:    models.Hulls,
		},
		{
			name:   "tier in another category",
			owner:  newOwner("terran", "Mixed Mk1"),
			levels: map[models.Category]int{models.Combat: 5},
			cat:    models.Combat,
		},
		{
			name:  "tier offered in its own category",
			owner: newOwner("terran", "Mixed Mk1"),
			cat:   models.Defense,
			want:  []string{"Mixed Mk2"},
		},
		{
			name:   "faction not eligible",
			owner:  newOwner("terran", "Bug swarm Mk1"),
			levels: map[models.Category]int{models.Combat: 5},
			cat:    models.Combat,
		},
		{
			name:   "one per family across families",
			owner:  newOwner("insectoid", "Bug swarm Mk1", "Lance Mk1"),
			levels: map[models.Category]int{models.Combat: 5},
			cat:    models.Combat,
			want:   []string{"Lance Mk2", "Bug swarm Mk2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for c, l := range tt.levels {
				tt.owner.levels.Set(c, l)
			}
			got := r.Unlockable(tt.owner, tt.cat)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Unlockable(%s) = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}

func TestChainOrderingHoldsForEveryOwnedPrefix(t *testing.T) {
	cat := testCatalog(t)
	r := New(cat)

	for _, fam := range cat.Families() {
		for owned := 0; owned <= len(fam.Tiers); owned++ {
			o := newOwner("insectoid", fam.Tiers[:owned]...)
			for i := range o.levels {
				o.levels[i] = models.MaxLevel
			}
			for _, c := range models.AllCategories() {
				for _, name := range r.Unlockable(o, c) {
					idx := slices.Index(fam.Tiers, name)
					if idx < 0 {
						continue
					}
					if idx == 0 || !o.HasTech(fam.Tiers[idx-1]) || o.HasTech(name) {
						t.Errorf("%s offered with owned prefix %v", name, fam.Tiers[:owned])
					}
				}
			}
		}
	}
}

func TestPending(t *testing.T) {
	r := New(testCatalog(t))
	o := newOwner("terran", "Lance Mk1", "Lance Mk2", "Hull Mk1")
	want := []string{"Lance Mk3", "Hull Mk2"}
	if got := r.Pending(o); !slices.Equal(got, want) {
		t.Errorf("Pending() = %v, want %v", got, want)
	}
}
