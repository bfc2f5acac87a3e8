package models

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// FactionID identifies the faction of a realm
type FactionID string

// EligibilityKind tags how an Eligibility rule is evaluated
type EligibilityKind int

const (
	Universal EligibilityKind = iota
	IncludeOnly
	ExcludeOnly
)

// String returns a string representation of the eligibility kind
func (k EligibilityKind) String() string {
	switch k {
	case Universal:
		return "universal"
	case IncludeOnly:
		return "only"
	case ExcludeOnly:
		return "except"
	default:
		return "unknown"
	}
}

// Eligibility decides which factions may research a technology.
// An empty faction set is universal regardless of Kind.
type Eligibility struct {
	Kind     EligibilityKind
	Factions []FactionID // sorted, no duplicates
}

// OnlyFor returns a rule admitting exactly the given factions
func OnlyFor(factions ...FactionID) Eligibility {
	return newEligibility(IncludeOnly, factions)
}

// ExceptFor returns a rule admitting every faction but the given ones
func ExceptFor(factions ...FactionID) Eligibility {
	return newEligibility(ExcludeOnly, factions)
}

func newEligibility(kind EligibilityKind, factions []FactionID) Eligibility {
	if len(factions) == 0 {
		return Eligibility{}
	}
	set := slices.Clone(factions)
	slices.Sort(set)
	return Eligibility{Kind: kind, Factions: slices.Compact(set)}
}

// Admits reports whether faction may research a technology with this rule
func (e Eligibility) Admits(faction FactionID) bool {
	if len(e.Factions) == 0 {
		return true
	}
	_, found := slices.BinarySearch(e.Factions, faction)
	switch e.Kind {
	case IncludeOnly:
		return found
	case ExcludeOnly:
		return !found
	default:
		return true
	}
}

// String returns a compact description such as "only(a,b)"
func (e Eligibility) String() string {
	if len(e.Factions) == 0 {
		return Universal.String()
	}
	names := make([]string, len(e.Factions))
	for i, f := range e.Factions {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s(%s)", e.Kind, strings.Join(names, ","))
}

// ArtifactKind is the kind of thing a technology unlocks
type ArtifactKind int

const (
	ArtifactNone ArtifactKind = iota
	ArtifactComponent
	ArtifactHull
	ArtifactBuilding
)

// String returns a string representation of the artifact kind
func (k ArtifactKind) String() string {
	switch k {
	case ArtifactComponent:
		return "component"
	case ArtifactHull:
		return "hull"
	case ArtifactBuilding:
		return "building"
	default:
		return "none"
	}
}

// Artifact is an opaque reference to a component, hull or building.
// Its metadata lives outside this engine.
type Artifact struct {
	Kind ArtifactKind
	Name string
}

// IsZero reports whether no artifact is referenced
func (a Artifact) IsZero() bool {
	return a.Kind == ArtifactNone || a.Name == ""
}

// ChainLink points at the next tier of a rare family
type ChainLink struct {
	Next  string // name of the next tier
	Level int    // minimum category level at which Next may be offered
}

// TechDefinition is an immutable technology produced by the catalog
type TechDefinition struct {
	Name        string
	Category    Category
	Level       int
	Artifact    Artifact
	Rare        bool
	Tradeable   bool
	Eligibility Eligibility
	Family      string // rare family name, empty for ordinary techs
	Chain       ChainLink
}

// HasChain reports whether the definition links to a next tier
func (d TechDefinition) HasChain() bool {
	return d.Chain.Next != ""
}

// SplitMark splits a name such as "Laser Mk3" into its line and mark number
func SplitMark(name string) (line string, mark int, ok bool) {
	i := strings.LastIndex(name, " Mk")
	if i <= 0 {
		return name, 0, false
	}
	mark, err := strconv.Atoi(name[i+3:])
	if err != nil || mark < 1 {
		return name, 0, false
	}
	return name[:i], mark, true
}
