package ledger

import (
	"bytes"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/napolitain/techtree/internal/models"
)

func TestSnapshotRoundTrip(t *testing.T) {
	cat := testCatalog(t)
	l := New(cat, "sporeborn")
	for _, name := range []string{"Railgun Mk1", "Laser Mk1", "Spore shield Mk1", "Relic Mk1", "Laser Mk3"} {
		if err := l.Grant(name); err != nil {
			t.Fatal(err)
		}
	}
	l.SetLevel(models.Propulsion, 7)
	l.SetFocus(models.Hulls, 36)
	l.Accumulate(models.Electronics, 41.25)

	restored := Restore(cat, l.Snapshot())

	if !reflect.DeepEqual(restored.Snapshot(), l.Snapshot()) {
		t.Fatalf("round trip changed state:\n%+v\n%+v", l.Snapshot(), restored.Snapshot())
	}
	if restored.Faction() != "sporeborn" {
		t.Errorf("faction = %q", restored.Faction())
	}
	if !slices.Equal(restored.Owned(), l.Owned()) {
		t.Errorf("owned = %v, want %v", restored.Owned(), l.Owned())
	}

	// Behaviourally identical: the same next grant has the same effect.
	l.Grant("Shield Mk1")
	restored.Grant("Shield Mk1")
	if l.Levels() != restored.Levels() {
		t.Errorf("levels diverged: %v vs %v", l.Levels(), restored.Levels())
	}
}

func TestSnapshotIsOrderIndependent(t *testing.T) {
	cat := testCatalog(t)
	a := New(cat, "terran")
	b := New(cat, "terran")
	a.Grant("Laser Mk1")
	a.Grant("Railgun Mk1")
	b.Grant("Railgun Mk1")
	b.Grant("Laser Mk1")

	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("acquisition order should not affect the snapshot")
	}
}

func TestRestoreSkipsUnknownNames(t *testing.T) {
	cat := testCatalog(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var s Snapshot
	s.Faction = "terran"
	s.Slots[models.Combat][0] = []string{"Laser Mk1", "Antique blaster Mk1"}
	s.Levels = [models.NumCategories]int{1, 1, 1, 1, 1, 1}
	s.Focus = models.DefaultFocus()

	l := Restore(cat, s, WithLogger(logger))
	if !l.HasTech("Laser Mk1") || l.HasTech("Antique blaster Mk1") {
		t.Errorf("owned = %v", l.Owned())
	}
	if !strings.Contains(buf.String(), "Antique blaster Mk1") {
		t.Errorf("expected a warning naming the unknown technology, got:\n%s", buf.String())
	}
}

func TestRestorePlacesByCatalog(t *testing.T) {
	cat := testCatalog(t)
	var s Snapshot
	s.Slots[models.Hulls][9] = []string{"Laser Mk2"}
	s.Focus = models.DefaultFocus()

	l := Restore(cat, s)
	if got := l.GetOwnedAt(models.Combat, 2); !slices.Equal(got, []string{"Laser Mk2"}) {
		t.Errorf("combat 2 = %v, want [Laser Mk2]", got)
	}
	if got := l.GetOwnedAt(models.Hulls, 10); len(got) != 0 {
		t.Errorf("hulls 10 = %v, want empty", got)
	}
}

func TestRestoreSanitizes(t *testing.T) {
	cat := testCatalog(t)
	var s Snapshot
	s.Slots[models.Combat][0] = []string{"Laser Mk1", "Railgun Mk1", "Laser Mk1"}
	s.Levels = [models.NumCategories]int{1, 0, 99, 5, -3, 20}
	s.Focus = [models.NumCategories]int{50, 50, 50, 0, 0, 0}
	s.Points = [models.NumCategories]float64{math.NaN(), -4, math.Inf(1), 3, 0, 1}

	l := Restore(cat, s)

	// The full slot stays at level 1: restoring never advances.
	want := models.CategoryInts{1, 1, 20, 5, 1, 20}
	if l.Levels() != want {
		t.Errorf("levels = %v, want %v", l.Levels(), want)
	}
	if l.Focus() != models.DefaultFocus() {
		t.Errorf("focus = %v, want default", l.Focus())
	}
	for c, want := range []float64{0, 0, 0, 3, 0, 1} {
		if got := l.GetPoints(models.Category(c)); got != want {
			t.Errorf("%s points = %v, want %v", models.Category(c), got, want)
		}
	}
	if l.TechCount() != 2 {
		t.Errorf("TechCount() = %d, want 2", l.TechCount())
	}
}
