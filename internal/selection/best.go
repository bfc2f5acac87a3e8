// Package selection picks the best owned technology by a metric over the
// metadata of the artifact it unlocks.
//
// Artifact metadata (weapon damage, engine speed and so on) lives outside
// the research engine and is reached through a Resolver.
package selection

import (
	"math/rand/v2"
	"slices"

	"github.com/napolitain/techtree/internal/ledger"
	"github.com/napolitain/techtree/internal/models"
)

// Resolver looks up the metadata of an artifact
type Resolver[M any] interface {
	Resolve(a models.Artifact) (M, bool)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc[M any] func(models.Artifact) (M, bool)

// Resolve calls f(a)
func (f ResolverFunc[M]) Resolve(a models.Artifact) (M, bool) { return f(a) }

// MapResolver resolves artifacts by name from a fixed table
type MapResolver[M any] map[string]M

// Resolve looks a.Name up in the table
func (m MapResolver[M]) Resolve(a models.Artifact) (M, bool) {
	v, ok := m[a.Name]
	return v, ok
}

// Query describes one "best X" question
type Query[M any] struct {
	Category models.Category
	Accept   func(M) bool    // nil accepts everything
	Score    func(M) float64 // higher is better
}

// Best scans the technologies l owns in q.Category that reference an
// artifact, drops those whose metadata is missing or rejected by q.Accept
// and returns the one with the highest score. Equal scores are settled by
// reservoir sampling on rng so every tied candidate is equally likely.
// Candidates are scanned by name, so acquisition order and a save round
// trip do not change which one rng picks.
func Best[M any](l *ledger.Ledger, q Query[M], r Resolver[M], rng *rand.Rand) (models.TechDefinition, bool) {
	cat := l.Catalog()

	var (
		best      models.TechDefinition
		bestScore float64
		ties      int
	)
	names := l.GetListForType(q.Category)
	slices.Sort(names)
	for _, name := range names {
		def, ok := cat.Lookup(name)
		if !ok || def.Artifact.IsZero() {
			continue
		}
		meta, ok := r.Resolve(def.Artifact)
		if !ok {
			continue
		}
		if q.Accept != nil && !q.Accept(meta) {
			continue
		}

		score := q.Score(meta)
		switch {
		case ties == 0 || score > bestScore:
			best, bestScore, ties = def, score, 1
		case score == bestScore:
			ties++
			if rng.IntN(ties) == 0 {
				best = def
			}
		}
	}
	return best, ties > 0
}
