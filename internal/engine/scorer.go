// internal/engine/scorer.go
package engine

import (
	"fmt"
	"math"
	"time"
)

const (
	weightSpecialty    = 40.0
	weightRating       = 20.0
	weightExperience   = 15.0
	weightAvailability = 15.0
	weightProximity    = 10.0

	proximityHorizonKm  = 50.0
	experienceCapYears  = 10.0
	excellentRating     = 4.5
	nearbyKm            = 20.0
	minReviewsForSignal = 20
)

// Canned risk factors. Common-risk extraction tallies these by exact string.
const (
	RiskLimitedReviews     = "Limited review history"
	RiskHighWorkload       = "High current workload may delay start"
	RiskBudgetTooLow       = "Budget likely too low"
	RiskBudgetAboveTypical = "Budget above typical projects"
)

const ReasonFullCoverage = "Covers all required specialties"

type ScoreBreakdown struct {
	Specialty    float64 `json:"specialty"`
	Rating       float64 `json:"rating"`
	Experience   float64 `json:"experience"`
	Availability float64 `json:"availability"`
	Proximity    float64 `json:"proximity"`
}

func (b ScoreBreakdown) Total() float64 {
	return b.Specialty + b.Rating + b.Experience + b.Availability + b.Proximity
}

type ScoredCandidate struct {
	Provider      ServiceProvider
	Score         int
	Reasons       []string
	Risks         []string
	Breakdown     ScoreBreakdown
	AvailableFrom time.Time
	Verification  *VerificationRecord
}

func (s ScoredCandidate) Verified() bool {
	return s.Verification != nil && s.Verification.Verified
}

// ScoreProvider scores one eligible provider against req. The result depends only
// on its arguments.
func (e *Engine) ScoreProvider(req RequirementSpec, p ServiceProvider, now time.Time) ScoredCandidate {
	b := ScoreBreakdown{
		Specialty:    clamp(specialtyCoverage(req.Categories, p.Specialties)*weightSpecialty, 0, weightSpecialty),
		Rating:       clamp(p.Rating/5*weightRating, 0, weightRating),
		Experience:   clamp(math.Min(float64(p.YearsExperience)/experienceCapYears, 1)*weightExperience, 0, weightExperience),
		Availability: clamp(availabilityPoints(p.Workload), 0, weightAvailability),
		Proximity:    clamp((proximityHorizonKm-p.Distance)/proximityHorizonKm*weightProximity, 0, weightProximity),
	}

	sc := ScoredCandidate{
		Provider:      p,
		Score:         int(clamp(math.Round(b.Total()), 0, 100)),
		Reasons:       []string{},
		Risks:         []string{},
		Breakdown:     b,
		AvailableFrom: now.Add(e.params.LeadTimes[p.Workload]),
	}

	if b.Specialty >= weightSpecialty {
		sc.Reasons = append(sc.Reasons, ReasonFullCoverage)
	}
	if p.Rating >= excellentRating {
		sc.Reasons = append(sc.Reasons, fmt.Sprintf("Excellent rating (%.1f/5 from %d reviews)", p.Rating, p.ReviewCount))
	}
	if p.YearsExperience >= int(experienceCapYears) {
		sc.Reasons = append(sc.Reasons, fmt.Sprintf("Ample experience (%d years)", p.YearsExperience))
	}
	if p.Workload == WorkloadLow {
		sc.Reasons = append(sc.Reasons, "Available on short notice")
	}
	if p.Distance <= nearbyKm {
		sc.Reasons = append(sc.Reasons, fmt.Sprintf("Located nearby (%.0f km)", p.Distance))
	}

	if p.ReviewCount < minReviewsForSignal {
		sc.Risks = append(sc.Risks, RiskLimitedReviews)
	}
	if p.Workload == WorkloadHigh {
		sc.Risks = append(sc.Risks, RiskHighWorkload)
	}
	if risk := e.budgetRisk(req.Budget, p.AverageProjectValue); risk != "" {
		sc.Risks = append(sc.Risks, risk)
	}

	return sc
}

// budgetRisk compares the candidate's typical project value against the
// requirement's budget band. It never excludes a candidate.
func (e *Engine) budgetRisk(budget, averageValue float64) string {
	if budget <= 0 || averageValue <= 0 {
		return ""
	}
	switch {
	case averageValue > budget*(1+e.params.BudgetTolerance):
		return RiskBudgetTooLow
	case averageValue < budget*(1-e.params.BudgetTolerance):
		return RiskBudgetAboveTypical
	}
	return ""
}

func specialtyCoverage(required, specialties []string) float64 {
	want := tagSet(required)
	if len(want) == 0 {
		return 0
	}
	have := tagSet(specialties)
	covered := 0
	for tag := range want {
		if _, ok := have[tag]; ok {
			covered++
		}
	}
	return float64(covered) / float64(len(want))
}

func availabilityPoints(w Workload) float64 {
	switch w {
	case WorkloadLow:
		return 15
	case WorkloadMedium:
		return 10
	case WorkloadHigh:
		return 5
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
