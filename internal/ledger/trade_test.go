package ledger

import (
	"slices"
	"testing"
)

func TestTradeCandidates(t *testing.T) {
	cat := testCatalog(t)
	giver := New(cat, "sporeborn")
	for _, name := range []string{"Laser Mk1", "Laser Mk2", "Spore shield Mk1", "Scout Mk1", "Relic Mk1"} {
		if err := giver.Grant(name); err != nil {
			t.Fatal(err)
		}
	}
	taker := New(cat, "terran")
	taker.Grant("Laser Mk2")

	// Spore shield is restricted and Relic is rare; Laser Mk2 is already owned.
	want := []string{"Laser Mk1", "Scout Mk1"}
	if got := giver.TradeCandidates(taker); !slices.Equal(got, want) {
		t.Errorf("TradeCandidates() = %v, want %v", got, want)
	}

	if got := taker.TradeCandidates(giver); len(got) != 0 {
		t.Errorf("reverse TradeCandidates() = %v, want empty", got)
	}
}

func TestUpgradeFor(t *testing.T) {
	cat := testCatalog(t)
	l := New(cat, "terran")
	l.Grant("Laser Mk1")
	l.Grant("Laser Mk3")
	l.Grant("Laser Mk2")

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"Laser Mk1", "Laser Mk3", true},
		{"Laser Mk2", "Laser Mk3", true},
		{"Laser Mk3", "", false},
		{"Railgun Mk1", "", false},
		{"Laser", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.UpgradeFor(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("UpgradeFor(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
			}
			if l.IsUpgradeable(tt.name) != tt.ok {
				t.Errorf("IsUpgradeable(%q) = %v", tt.name, !tt.ok)
			}
		})
	}
}
