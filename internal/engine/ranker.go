// internal/engine/ranker.go
package engine

import "sort"

// Rank returns a copy of items ordered by score descending. Equal scores keep
// their input order. A limit of zero or less keeps every item.
func Rank[T any](items []T, score func(T) float64, limit int) []T {
	ranked := make([]T, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func byScore(s ScoredCandidate) float64 { return float64(s.Score) }

func byTotalAmount(c Combination) float64 { return c.TotalAmount }
