package models

import (
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"combat", Combat, false},
		{"Defense", Defense, false},
		{" HULLS ", Hulls, false},
		{"improvements", Improvements, false},
		{"propulsion", Propulsion, false},
		{"electronics", Electronics, false},
		{"economy", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	for _, c := range AllCategories() {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v; want %v", c.String(), got, err, c)
		}
	}
	if Improvements.Title() != "Improvements" {
		t.Errorf("Title() = %q", Improvements.Title())
	}
}

func TestCategoryIndexPanicsOutOfRange(t *testing.T) {
	for _, c := range []Category{-1, NumCategories, 42} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Index() on %d did not panic", int(c))
				}
			}()
			_ = c.Index()
		}()
	}
}

func TestCheckLevel(t *testing.T) {
	CheckLevel(MinLevel)
	CheckLevel(MaxLevel)

	for _, level := range []int{0, -3, MaxLevel + 1} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("CheckLevel(%d) did not panic", level)
				}
			}()
			CheckLevel(level)
		}()
	}
}

func TestClampLevel(t *testing.T) {
	tests := map[int]int{-5: 1, 0: 1, 1: 1, 7: 7, 20: 20, 21: 20, 99: 20}
	for in, want := range tests {
		if got := ClampLevel(in); got != want {
			t.Errorf("ClampLevel(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestDefaultFocusSumsToTotal(t *testing.T) {
	focus := DefaultFocus()
	if focus.Sum() != FocusTotal {
		t.Errorf("DefaultFocus sum = %d, want %d", focus.Sum(), FocusTotal)
	}
}

func TestCategoryIntsEachIsOrdered(t *testing.T) {
	var table CategoryInts
	table.Set(Propulsion, 3)

	var seen []Category
	table.Each(func(c Category, v int) {
		seen = append(seen, c)
		if c == Propulsion && v != 3 {
			t.Errorf("Propulsion = %d, want 3", v)
		}
	})
	for i, c := range seen {
		if c != AllCategories()[i] {
			t.Fatalf("Each order = %v", seen)
		}
	}
}

func TestGameLengthForTurns(t *testing.T) {
	tests := []struct {
		turns int
		want  GameLength
	}{
		{0, GameStandard},
		{-1, GameStandard},
		{150, GameVeryShort},
		{200, GameVeryShort},
		{201, GameShort},
		{300, GameShort},
		{400, GameStandard},
		{500, GameLong},
		{800, GameVeryLong},
		{801, GameEpic},
		{5000, GameEpic},
	}
	for _, tt := range tests {
		if got := GameLengthForTurns(tt.turns); got != tt.want {
			t.Errorf("GameLengthForTurns(%d) = %v, want %v", tt.turns, got, tt.want)
		}
	}
}

func TestParseGameLength(t *testing.T) {
	for _, g := range AllGameLengths() {
		got, err := ParseGameLength(g.String())
		if err != nil || got != g {
			t.Errorf("ParseGameLength(%q) = %v, %v", g.String(), got, err)
		}
	}
	if _, err := ParseGameLength("marathon"); err == nil {
		t.Error("expected error for unknown game length")
	}
}
