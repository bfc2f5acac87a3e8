package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to limit technology names close to name, nearest first.
// Matching ignores case; names sharing name as a prefix count as distance 0.
func (c *Catalog) Suggest(name string, limit int) []string {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" || limit <= 0 {
		return nil
	}
	threshold := max(2, len(query)/3)

	type candidate struct {
		name string
		dist int
	}
	var candidates []candidate
	for _, n := range c.names {
		lower := strings.ToLower(n)
		dist := levenshtein.ComputeDistance(query, lower)
		if strings.HasPrefix(lower, query) {
			dist = 0
		}
		if dist <= threshold {
			candidates = append(candidates, candidate{name: n, dist: dist})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	out := make([]string, 0, min(limit, len(candidates)))
	for _, cand := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, cand.name)
	}
	return out
}
