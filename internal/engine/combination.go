// internal/engine/combination.go
package engine

type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
)

const (
	singleProcessingTime = "6-8 weeks"
	pairProcessingTime   = "8-12 weeks"
)

// Combination is a ranking unit of one or two compatible schemes.
type Combination struct {
	Schemes            []Scheme
	TotalAmount        float64
	Measures           []string
	Complexity         Complexity
	SuccessProbability float64
	ProcessingTime     string
}

// Compatible reports whether two schemes may be applied for together: their
// measures must not overlap and they must come from different authorities.
func Compatible(a, b Scheme) bool {
	if normalizeTag(a.Provider) == normalizeTag(b.Provider) {
		return false
	}
	return !intersects(a.Measures, tagSet(b.Measures))
}

// EnumerateCombinations emits a singleton per scheme followed by every
// compatible pair (i < j). Larger combinations are never produced.
func (e *Engine) EnumerateCombinations(schemes []Scheme) []Combination {
	combos := make([]Combination, 0, len(schemes))

	for _, s := range schemes {
		combos = append(combos, Combination{
			Schemes:            []Scheme{s},
			TotalAmount:        s.MaxAmount,
			Measures:           unionTags(s.Measures),
			Complexity:         ComplexityLow,
			SuccessProbability: e.params.SingleSuccessProbability,
			ProcessingTime:     singleProcessingTime,
		})
	}

	for i := 0; i < len(schemes); i++ {
		for j := i + 1; j < len(schemes); j++ {
			a, b := schemes[i], schemes[j]
			if !Compatible(a, b) {
				continue
			}
			combos = append(combos, Combination{
				Schemes:            []Scheme{a, b},
				TotalAmount:        a.MaxAmount + b.MaxAmount,
				Measures:           unionTags(a.Measures, b.Measures),
				Complexity:         ComplexityMedium,
				SuccessProbability: e.params.PairSuccessProbability,
				ProcessingTime:     pairProcessingTime,
			})
		}
	}

	return combos
}

// unionTags merges tag lists in first-seen order without duplicates.
func unionTags(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, list := range lists {
		for _, t := range list {
			key := normalizeTag(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
