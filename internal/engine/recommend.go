// internal/engine/recommend.go
package engine

import (
	"fmt"
	"time"
)

var contractorNextSteps = []string{
	"Request detailed quotes from your top three matches",
	"Check certifications and insurance before signing",
	"Compare warranties and payment terms",
}

var contractorNoMatchGuidance = []string{
	"Widen your search radius",
	"Relax your certification preferences",
	"Broaden the project categories you are searching for",
}

var subsidyNextSteps = []string{
	"Collect quotes for the planned measures before applying",
	"Check the application conditions on the issuing authority's website",
}

var subsidyNoMatchGuidance = []string{
	"Broaden the planned measures",
	"Check your municipality for local schemes",
	"Check back later for newly opened schemes",
}

type Phase struct {
	Name     string    `json:"name"`
	Start    time.Time `json:"start"`
	Duration string    `json:"duration"`
}

var phases = []struct {
	name     string
	offset   time.Duration
	duration string
}{
	{"Quote & selection", 0, "1-2 weeks"},
	{"Preparation", 14 * 24 * time.Hour, "1 week"},
	{"Execution", 21 * 24 * time.Hour, "2-3 weeks"},
	{"Completion", 42 * 24 * time.Hour, "1 week"},
}

type BudgetAdvice struct {
	Budget          float64 `json:"budget"`
	AverageCost     float64 `json:"averageCost"`
	Adequate        bool    `json:"adequate"`
	SuggestedBudget float64 `json:"suggestedBudget"`
}

type ContractorRecommendations struct {
	NextSteps   []string
	Timeline    []Phase
	Budget      *BudgetAdvice
	Mitigations []string
}

type SubsidyRecommendations struct {
	NextSteps []string
	// ApplyWithinWeeks is zero when no scheme is pressing.
	ApplyWithinWeeks int
	UrgentScheme     *Scheme
}

// RecommendContractors derives guidance from the ranked set and its statistics.
func (e *Engine) RecommendContractors(req RequirementSpec, ranked []ScoredCandidate, stats *Statistics, commonRisks []string) ContractorRecommendations {
	if len(ranked) == 0 {
		return ContractorRecommendations{
			NextSteps:   append([]string{}, contractorNoMatchGuidance...),
			Timeline:    []Phase{},
			Mitigations: []string{},
		}
	}

	steps := append([]string{}, contractorNextSteps...)
	fastest := fastestAvailable(ranked)
	steps = append(steps, fmt.Sprintf("%s is available soonest, from %s",
		fastest.Provider.Name, fastest.AvailableFrom.Format("2006-01-02")))

	rec := ContractorRecommendations{
		NextSteps:   steps,
		Timeline:    projectTimeline(ranked[0].AvailableFrom),
		Mitigations: Mitigations(commonRisks),
	}
	if stats != nil {
		rec.Budget = &BudgetAdvice{
			Budget:          req.Budget,
			AverageCost:     stats.AveragePrice,
			Adequate:        req.Budget >= stats.AveragePrice,
			SuggestedBudget: stats.AveragePrice * e.params.SuggestedBudgetMarkup,
		}
	}
	return rec
}

// RecommendSubsidies names the most urgent scheme and how soon to apply.
func (e *Engine) RecommendSubsidies(combos []Combination, deadlines []DeadlineInsight) SubsidyRecommendations {
	if len(combos) == 0 {
		return SubsidyRecommendations{NextSteps: append([]string{}, subsidyNoMatchGuidance...)}
	}

	rec := SubsidyRecommendations{NextSteps: append([]string{}, subsidyNextSteps...)}
	best := combos[0]
	rec.NextSteps = append(rec.NextSteps, fmt.Sprintf("Best option: %s for a total of EUR %.0f", schemeNames(best.Schemes), best.TotalAmount))

	if len(deadlines) > 0 {
		top := deadlines[0]
		if weeks := applyWithinWeeks(top.Urgency); weeks > 0 {
			s := top.Scheme
			rec.ApplyWithinWeeks = weeks
			rec.UrgentScheme = &s
			rec.NextSteps = append(rec.NextSteps, fmt.Sprintf("Apply for %s within %d weeks", s.Name, weeks))
		}
	}
	return rec
}

func applyWithinWeeks(urgency int) int {
	switch {
	case urgency >= 70:
		return 2
	case urgency >= 40:
		return 4
	case urgency >= 10:
		return 8
	}
	return 0
}

// fastestAvailable picks the earliest availability; ties go to the higher rank.
func fastestAvailable(ranked []ScoredCandidate) ScoredCandidate {
	best := ranked[0]
	for _, sc := range ranked[1:] {
		if sc.AvailableFrom.Before(best.AvailableFrom) {
			best = sc
		}
	}
	return best
}

func projectTimeline(anchor time.Time) []Phase {
	out := make([]Phase, 0, len(phases))
	for _, p := range phases {
		out = append(out, Phase{Name: p.name, Start: anchor.Add(p.offset), Duration: p.duration})
	}
	return out
}

func schemeNames(schemes []Scheme) string {
	switch len(schemes) {
	case 0:
		return ""
	case 1:
		return schemes[0].Name
	}
	return schemes[0].Name + " + " + schemes[1].Name
}
