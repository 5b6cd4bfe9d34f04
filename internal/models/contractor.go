// internal/models/contractor.go
package models

import (
	"matching-workers/internal/engine"
)

const DefaultMaxDistance = 50.0

type ContractorMatchRequest struct {
	ProjectType             []string `json:"projectType" validate:"required,min=1,dive,required"`
	Location                string   `json:"location" validate:"required,min=1"`
	Budget                  float64  `json:"budget" validate:"required,min=1000"`
	Timeline                string   `json:"timeline" validate:"required,min=1"`
	PropertyType            string   `json:"propertyType" validate:"required,min=1"`
	SpecialRequirements     []string `json:"specialRequirements"`
	PreferredCertifications []string `json:"preferredCertifications"`
	MaxDistance             *float64 `json:"maxDistance" validate:"omitempty,min=5,max=100"`
}

// ApplyDefaults fills optional fields that were omitted.
func (r *ContractorMatchRequest) ApplyDefaults() {
	if r.SpecialRequirements == nil {
		r.SpecialRequirements = []string{}
	}
	if r.PreferredCertifications == nil {
		r.PreferredCertifications = []string{}
	}
	if r.MaxDistance == nil {
		d := DefaultMaxDistance
		r.MaxDistance = &d
	}
}

func (r ContractorMatchRequest) ToRequirementSpec() engine.RequirementSpec {
	spec := engine.RequirementSpec{
		Categories:              r.ProjectType,
		Location:                r.Location,
		Budget:                  r.Budget,
		Timeline:                r.Timeline,
		PropertyType:            r.PropertyType,
		SpecialRequirements:     r.SpecialRequirements,
		PreferredCertifications: r.PreferredCertifications,
	}
	if r.MaxDistance != nil {
		spec.MaxDistance = *r.MaxDistance
	}
	return spec
}

type ContractorMatch struct {
	ID                  string                     `json:"id"`
	Name                string                     `json:"name"`
	Location            string                     `json:"location"`
	Distance            float64                    `json:"distance"`
	Specialties         []string                   `json:"specialties"`
	Certifications      []string                   `json:"certifications"`
	Rating              float64                    `json:"rating"`
	ReviewCount         int                        `json:"reviewCount"`
	YearsExperience     int                        `json:"yearsExperience"`
	Workload            string                     `json:"workload"`
	AverageProjectValue float64                    `json:"averageProjectValue"`
	MatchScore          int                        `json:"matchScore"`
	MatchReasons        []string                   `json:"matchReasons"`
	RiskFactors         []string                   `json:"riskFactors"`
	ScoreBreakdown      engine.ScoreBreakdown      `json:"scoreBreakdown"`
	AvailableFrom       string                     `json:"availableFrom"`
	Verified            bool                       `json:"verified"`
	Verification        *engine.VerificationRecord `json:"verification,omitempty"`
}

type ContractorSummary struct {
	TotalCandidates int `json:"totalCandidates"`
	EligibleCount   int `json:"eligibleCount"`
	ReturnedCount   int `json:"returnedCount"`
	VerifiedCount   int `json:"verifiedCount"`
	// Statistics is null when nothing matched.
	Statistics  *engine.Statistics `json:"statistics"`
	CommonRisks []string           `json:"commonRisks"`
}

type TimelinePhase struct {
	Phase     string `json:"phase"`
	StartDate string `json:"startDate"`
	Duration  string `json:"duration"`
}

type ContractorRecommendations struct {
	NextSteps          []string             `json:"nextSteps"`
	Timeline           []TimelinePhase      `json:"timeline"`
	BudgetOptimization *engine.BudgetAdvice `json:"budgetOptimization"`
	RiskMitigation     []string             `json:"riskMitigation"`
}

type ContractorMatchResponse struct {
	RequestID       string                    `json:"requestId"`
	Matches         []ContractorMatch         `json:"matches"`
	Summary         ContractorSummary         `json:"summary"`
	Recommendations ContractorRecommendations `json:"recommendations"`
	LastUpdated     string                    `json:"lastUpdated"`
}

func NewContractorMatchResponse(requestID string, res *engine.ContractorResult) ContractorMatchResponse {
	matches := make([]ContractorMatch, 0, len(res.Matches))
	for _, m := range res.Matches {
		p := m.Provider
		matches = append(matches, ContractorMatch{
			ID:                  p.ID,
			Name:                p.Name,
			Location:            p.Location,
			Distance:            p.Distance,
			Specialties:         nonNil(p.Specialties),
			Certifications:      nonNil(p.Certifications),
			Rating:              p.Rating,
			ReviewCount:         p.ReviewCount,
			YearsExperience:     p.YearsExperience,
			Workload:            string(p.Workload),
			AverageProjectValue: p.AverageProjectValue,
			MatchScore:          m.Score,
			MatchReasons:        nonNil(m.Reasons),
			RiskFactors:         nonNil(m.Risks),
			ScoreBreakdown:      m.Breakdown,
			AvailableFrom:       formatDate(m.AvailableFrom),
			Verified:            m.Verified(),
			Verification:        m.Verification,
		})
	}

	timeline := make([]TimelinePhase, 0, len(res.Recommendations.Timeline))
	for _, ph := range res.Recommendations.Timeline {
		timeline = append(timeline, TimelinePhase{Phase: ph.Name, StartDate: formatDate(ph.Start), Duration: ph.Duration})
	}

	return ContractorMatchResponse{
		RequestID: requestID,
		Matches:   matches,
		Summary: ContractorSummary{
			TotalCandidates: res.TotalCandidates,
			EligibleCount:   res.EligibleCount,
			ReturnedCount:   len(matches),
			VerifiedCount:   res.VerifiedCount,
			Statistics:      res.Statistics,
			CommonRisks:     nonNil(res.CommonRisks),
		},
		Recommendations: ContractorRecommendations{
			NextSteps:          nonNil(res.Recommendations.NextSteps),
			Timeline:           timeline,
			BudgetOptimization: res.Recommendations.Budget,
			RiskMitigation:     nonNil(res.Recommendations.Mitigations),
		},
		LastUpdated: formatTimestamp(res.GeneratedAt),
	}
}
