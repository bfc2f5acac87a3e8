package models

import (
	"fmt"
	"strings"
)

// Category represents one of the six research domains
type Category int

const (
	Combat Category = iota
	Defense
	Hulls
	Improvements
	Propulsion
	Electronics
)

// NumCategories is the number of research categories
const NumCategories = 6

var categoryNames = [NumCategories]string{
	"combat", "defense", "hulls", "improvements", "propulsion", "electronics",
}

// AllCategories returns all categories in deterministic research order
func AllCategories() []Category {
	return []Category{Combat, Defense, Hulls, Improvements, Propulsion, Electronics}
}

// Valid reports whether c is one of the six defined categories
func (c Category) Valid() bool {
	return c >= Combat && c <= Electronics
}

// Index returns c as a table index. An undefined category is a programmer
// error and panics.
func (c Category) Index() int {
	if !c.Valid() {
		panic(fmt.Sprintf("models: category index %d out of range [0,%d)", int(c), NumCategories))
	}
	return int(c)
}

// String returns the lower-case category name
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Title returns the category name for display
func (c Category) Title() string {
	s := c.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseCategory parses a category name, case-insensitively
func ParseCategory(s string) (Category, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == want {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// CheckLevel panics when level is not a valid slot index (1-20).
func CheckLevel(level int) {
	if level < MinLevel || level > MaxLevel {
		panic(fmt.Sprintf("models: level index %d out of range [%d,%d]", level, MinLevel, MaxLevel))
	}
}

// ClampLevel bounds a level value to [MinLevel, MaxLevel]
func ClampLevel(level int) int {
	return min(max(level, MinLevel), MaxLevel)
}

// CategoryInts is a deterministic per-category table (replaces map[Category]int)
type CategoryInts [NumCategories]int

// Get returns the value for a category
func (t *CategoryInts) Get(c Category) int {
	return t[c.Index()]
}

// Set sets the value for a category
func (t *CategoryInts) Set(c Category, v int) {
	t[c.Index()] = v
}

// Sum returns the total over all categories
func (t *CategoryInts) Sum() int {
	total := 0
	for _, v := range t {
		total += v
	}
	return total
}

// Each iterates over all categories in deterministic order
func (t *CategoryInts) Each(fn func(Category, int)) {
	for i, v := range t {
		fn(Category(i), v)
	}
}

// CategoryFloats is the real-valued counterpart of CategoryInts
type CategoryFloats [NumCategories]float64

// Get returns the value for a category
func (t *CategoryFloats) Get(c Category) float64 {
	return t[c.Index()]
}

// Set sets the value for a category
func (t *CategoryFloats) Set(c Category, v float64) {
	t[c.Index()] = v
}

// Add adds to the value for a category
func (t *CategoryFloats) Add(c Category, v float64) {
	t[c.Index()] += v
}

// Each iterates over all categories in deterministic order
func (t *CategoryFloats) Each(fn func(Category, float64)) {
	for i, v := range t {
		fn(Category(i), v)
	}
}
