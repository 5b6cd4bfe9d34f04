// internal/engine/candidate.go
package engine

import (
	"fmt"
	"strings"
	"time"

	"matching-workers/internal/common/errors"
)

// Workload is a contractor's current booking level, used as an availability proxy.
type Workload string

const (
	WorkloadLow    Workload = "low"
	WorkloadMedium Workload = "medium"
	WorkloadHigh   Workload = "high"
)

func (w Workload) Valid() bool {
	switch w {
	case WorkloadLow, WorkloadMedium, WorkloadHigh:
		return true
	}
	return false
}

// Candidate is implemented only by ServiceProvider and Scheme.
type Candidate interface {
	CandidateID() string
	Validate() error
	candidate()
}

type ServiceProvider struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Location            string   `json:"location"`
	Distance            float64  `json:"distance"`
	Specialties         []string `json:"specialties"`
	Certifications      []string `json:"certifications"`
	Rating              float64  `json:"rating"`
	ReviewCount         int      `json:"reviewCount"`
	YearsExperience     int      `json:"yearsExperience"`
	Workload            Workload `json:"workload"`
	AverageProjectValue float64  `json:"averageProjectValue"`
}

func (ServiceProvider) candidate() {}

func (p ServiceProvider) CandidateID() string { return p.ID }

func (p ServiceProvider) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.NewMalformedCandidateError(p.ID, "missing id")
	case p.Rating < 0 || p.Rating > 5:
		return errors.NewMalformedCandidateError(p.ID, fmt.Sprintf("rating %.2f outside 0-5", p.Rating))
	case p.Distance < 0:
		return errors.NewMalformedCandidateError(p.ID, "negative distance")
	case p.ReviewCount < 0 || p.YearsExperience < 0:
		return errors.NewMalformedCandidateError(p.ID, "negative review count or experience")
	case !p.Workload.Valid():
		return errors.NewMalformedCandidateError(p.ID, fmt.Sprintf("unknown workload %q", p.Workload))
	}
	return nil
}

type Scheme struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Provider        string    `json:"provider"`
	Measures        []string  `json:"measures"`
	MaxAmount       float64   `json:"maxAmount"`
	RemainingBudget float64   `json:"remainingBudget"` // percent, 0-100
	Deadline        time.Time `json:"deadline"`
}

func (Scheme) candidate() {}

func (s Scheme) CandidateID() string { return s.ID }

func (s Scheme) Validate() error {
	switch {
	case strings.TrimSpace(s.ID) == "":
		return errors.NewMalformedCandidateError(s.ID, "missing id")
	case strings.TrimSpace(s.Provider) == "":
		return errors.NewMalformedCandidateError(s.ID, "missing issuing authority")
	case s.MaxAmount < 0:
		return errors.NewMalformedCandidateError(s.ID, "negative max amount")
	case s.RemainingBudget < 0 || s.RemainingBudget > 100:
		return errors.NewMalformedCandidateError(s.ID, fmt.Sprintf("remaining budget %.1f%% outside 0-100", s.RemainingBudget))
	case s.Deadline.IsZero():
		return errors.NewMalformedCandidateError(s.ID, "missing deadline")
	}
	return nil
}

// PropertyProfile describes the property on the subsidy path.
type PropertyProfile struct {
	Address          string   `json:"address"`
	PostalCode       string   `json:"postalCode"`
	EnergyLabel      string   `json:"energyLabel"`
	ConstructionYear int      `json:"constructionYear"`
	OwnerOccupied    bool     `json:"ownerOccupied"`
	HouseholdIncome  *float64 `json:"householdIncome,omitempty"`
}

// RequirementSpec is the caller's query. Categories are project types on the
// contractor path and planned measures on the subsidy path.
type RequirementSpec struct {
	Categories              []string
	Location                string
	MaxDistance             float64
	Budget                  float64
	Timeline                string
	PropertyType            string
	SpecialRequirements     []string
	PreferredCertifications []string
	Property                *PropertyProfile
}

func validateAll[T Candidate](pool []T) error {
	for _, c := range pool {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[normalizeTag(t)] = struct{}{}
	}
	return set
}

func intersects(a []string, set map[string]struct{}) bool {
	for _, t := range a {
		if _, ok := set[normalizeTag(t)]; ok {
			return true
		}
	}
	return false
}
