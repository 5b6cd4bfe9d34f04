// internal/models/subsidy.go
package models

import (
	"time"

	"matching-workers/internal/engine"
)

type SubsidyMatchRequest struct {
	Address          string   `json:"address" validate:"required"`
	PostalCode       string   `json:"postalCode" validate:"required,postcode"`
	EnergyLabel      string   `json:"energyLabel" validate:"required"`
	ConstructionYear int      `json:"constructionYear" validate:"required,min=1800,notfutureyear"`
	PropertyType     string   `json:"propertyType" validate:"required"`
	OwnerOccupied    *bool    `json:"ownerOccupied"`
	HouseholdIncome  *float64 `json:"householdIncome" validate:"omitempty,min=0"`
	PlannedMeasures  []string `json:"plannedMeasures"`
}

func (r *SubsidyMatchRequest) ApplyDefaults() {
	if r.OwnerOccupied == nil {
		occupied := true
		r.OwnerOccupied = &occupied
	}
	if r.PlannedMeasures == nil {
		r.PlannedMeasures = []string{}
	}
}

func (r SubsidyMatchRequest) ToRequirementSpec() engine.RequirementSpec {
	profile := &engine.PropertyProfile{
		Address:          r.Address,
		PostalCode:       r.PostalCode,
		EnergyLabel:      r.EnergyLabel,
		ConstructionYear: r.ConstructionYear,
		OwnerOccupied:    r.OwnerOccupied == nil || *r.OwnerOccupied,
		HouseholdIncome:  r.HouseholdIncome,
	}
	return engine.RequirementSpec{
		Categories:   r.PlannedMeasures,
		Location:     r.PostalCode,
		PropertyType: r.PropertyType,
		Property:     profile,
	}
}

type SchemeView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Provider        string   `json:"provider"`
	Measures        []string `json:"measures"`
	MaxAmount       float64  `json:"maxAmount"`
	RemainingBudget float64  `json:"remainingBudget"`
	Deadline        string   `json:"deadline"`
}

type SubsidyCombination struct {
	Schemes            []SchemeView `json:"schemes"`
	TotalAmount        float64      `json:"totalAmount"`
	Measures           []string     `json:"measures"`
	Complexity         string       `json:"complexity"`
	SuccessProbability float64      `json:"successProbability"`
	ProcessingTime     string       `json:"processingTime"`
}

type SubsidySummary struct {
	TotalSchemes      int     `json:"totalSchemes"`
	EligibleSchemes   int     `json:"eligibleSchemes"`
	TotalCombinations int     `json:"totalCombinations"`
	MaxTotalAmount    float64 `json:"maxTotalAmount"`
}

type DeadlineEntry struct {
	SchemeID          string `json:"schemeId"`
	SchemeName        string `json:"schemeName"`
	Deadline          string `json:"deadline"`
	DaysUntilDeadline int    `json:"daysUntilDeadline"`
	UrgencyScore      int    `json:"urgencyScore"`
	BudgetDepletion   string `json:"budgetDepletion"`
}

type SubsidyRecommendations struct {
	NextSteps        []string        `json:"nextSteps"`
	ApplyWithinWeeks int             `json:"applyWithinWeeks"`
	UrgentScheme     *SchemeView     `json:"urgentScheme"`
	DeadlineAnalysis []DeadlineEntry `json:"deadlineAnalysis"`
}

type SubsidyMatchResponse struct {
	RequestID       string                 `json:"requestId"`
	Combinations    []SubsidyCombination   `json:"combinations"`
	Summary         SubsidySummary         `json:"summary"`
	Recommendations SubsidyRecommendations `json:"recommendations"`
	LastUpdated     string                 `json:"lastUpdated"`
}

func NewSubsidyMatchResponse(requestID string, res *engine.SubsidyResult) SubsidyMatchResponse {
	combos := make([]SubsidyCombination, 0, len(res.Combinations))
	for _, c := range res.Combinations {
		schemes := make([]SchemeView, 0, len(c.Schemes))
		for _, s := range c.Schemes {
			schemes = append(schemes, newSchemeView(s))
		}
		combos = append(combos, SubsidyCombination{
			Schemes:            schemes,
			TotalAmount:        c.TotalAmount,
			Measures:           nonNil(c.Measures),
			Complexity:         string(c.Complexity),
			SuccessProbability: c.SuccessProbability,
			ProcessingTime:     c.ProcessingTime,
		})
	}

	deadlines := make([]DeadlineEntry, 0, len(res.Deadlines))
	for _, d := range res.Deadlines {
		deadlines = append(deadlines, DeadlineEntry{
			SchemeID:          d.Scheme.ID,
			SchemeName:        d.Scheme.Name,
			Deadline:          formatDate(d.Scheme.Deadline),
			DaysUntilDeadline: d.DaysUntilDeadline,
			UrgencyScore:      d.Urgency,
			BudgetDepletion:   d.Depletion,
		})
	}

	summary := SubsidySummary{
		TotalSchemes:      res.TotalCandidates,
		EligibleSchemes:   len(res.EligibleSchemes),
		TotalCombinations: len(combos),
	}
	if len(combos) > 0 {
		summary.MaxTotalAmount = combos[0].TotalAmount
	}

	recs := SubsidyRecommendations{
		NextSteps:        nonNil(res.Recommendations.NextSteps),
		ApplyWithinWeeks: res.Recommendations.ApplyWithinWeeks,
		DeadlineAnalysis: deadlines,
	}
	if s := res.Recommendations.UrgentScheme; s != nil {
		view := newSchemeView(*s)
		recs.UrgentScheme = &view
	}

	return SubsidyMatchResponse{
		RequestID:       requestID,
		Combinations:    combos,
		Summary:         summary,
		Recommendations: recs,
		LastUpdated:     formatTimestamp(res.GeneratedAt),
	}
}

func newSchemeView(s engine.Scheme) SchemeView {
	return SchemeView{
		ID:              s.ID,
		Name:            s.Name,
		Provider:        s.Provider,
		Measures:        nonNil(s.Measures),
		MaxAmount:       s.MaxAmount,
		RemainingBudget: s.RemainingBudget,
		Deadline:        formatDate(s.Deadline),
	}
}

func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
