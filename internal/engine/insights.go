// internal/engine/insights.go
package engine

import (
	"math"
	"sort"
	"time"
)

const (
	DepletionWithinTwoMonths = "within 2 months"
	DepletionWithinSixMonths = "within 6 months"
	DepletionLater           = "more than 6 months"
)

var mitigations = map[string]string{
	RiskLimitedReviews:     "Ask for references and photos of recent comparable projects",
	RiskHighWorkload:       "Agree a start date in writing before signing",
	RiskBudgetTooLow:       "Reduce the scope or raise the budget, and collect at least three quotes",
	RiskBudgetAboveTypical: "Check that the contractor has delivered projects of this size before",
}

// Statistics summarizes a non-empty ranked contractor set.
type Statistics struct {
	Count             int     `json:"count"`
	AverageRating     float64 `json:"averageRating"`
	AverageExperience float64 `json:"averageExperience"`
	MinPrice          float64 `json:"minPrice"`
	MaxPrice          float64 `json:"maxPrice"`
	AveragePrice      float64 `json:"averagePrice"`
}

type DeadlineInsight struct {
	Scheme            Scheme
	DaysUntilDeadline int
	Urgency           int
	Depletion         string
}

// DaysUntil counts whole calendar days from now to deadline in UTC. Past
// deadlines are negative.
func DaysUntil(deadline, now time.Time) int {
	d := truncateDay(deadline)
	n := truncateDay(now)
	return int(math.Round(d.Sub(n).Hours() / 24))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// UrgencyScore adds deadline proximity and budget scarcity points.
func UrgencyScore(s Scheme, now time.Time) int {
	score := 0

	switch days := DaysUntil(s.Deadline, now); {
	case days <= 30:
		score += 50
	case days <= 60:
		score += 30
	case days <= 90:
		score += 10
	}

	switch r := s.RemainingBudget; {
	case r <= 20:
		score += 40
	case r <= 40:
		score += 25
	case r <= 60:
		score += 10
	}

	return score
}

// MonthsToDepletion extrapolates the last twelve months of consumption. It
// returns +Inf when nothing has been consumed.
func MonthsToDepletion(remaining float64) float64 {
	monthlyRate := (100 - remaining) / 12
	if monthlyRate <= 0 {
		return math.Inf(1)
	}
	return remaining / monthlyRate
}

func DepletionLabel(remaining float64) string {
	switch months := MonthsToDepletion(remaining); {
	case months < 2:
		return DepletionWithinTwoMonths
	case months < 6:
		return DepletionWithinSixMonths
	}
	return DepletionLater
}

// AnalyzeDeadlines orders schemes by urgency, highest first, keeping input
// order among equals.
func AnalyzeDeadlines(schemes []Scheme, now time.Time) []DeadlineInsight {
	insights := make([]DeadlineInsight, 0, len(schemes))
	for _, s := range schemes {
		insights = append(insights, DeadlineInsight{
			Scheme:            s,
			DaysUntilDeadline: DaysUntil(s.Deadline, now),
			Urgency:           UrgencyScore(s, now),
			Depletion:         DepletionLabel(s.RemainingBudget),
		})
	}
	return Rank(insights, func(d DeadlineInsight) float64 { return float64(d.Urgency) }, 0)
}

// CommonRisks returns the risk factors present on at least threshold of the
// ranked set, most frequent first.
func CommonRisks(ranked []ScoredCandidate, threshold float64) []string {
	if len(ranked) == 0 {
		return []string{}
	}

	counts := make(map[string]int)
	var order []string
	for _, sc := range ranked {
		for _, r := range sc.Risks {
			if counts[r] == 0 {
				order = append(order, r)
			}
			counts[r]++
		}
	}

	common := []string{}
	for _, r := range order {
		if float64(counts[r])/float64(len(ranked)) >= threshold {
			common = append(common, r)
		}
	}
	sort.SliceStable(common, func(i, j int) bool {
		return counts[common[i]] > counts[common[j]]
	})
	return common
}

func Mitigations(risks []string) []string {
	out := make([]string, 0, len(risks))
	for _, r := range risks {
		if m, ok := mitigations[r]; ok {
			out = append(out, m)
		}
	}
	return out
}

// ComputeStatistics returns nil for an empty ranked set.
func ComputeStatistics(ranked []ScoredCandidate) *Statistics {
	if len(ranked) == 0 {
		return nil
	}

	st := &Statistics{
		Count:    len(ranked),
		MinPrice: math.Inf(1),
		MaxPrice: math.Inf(-1),
	}
	var ratingSum, experienceSum, priceSum float64
	for _, sc := range ranked {
		p := sc.Provider
		ratingSum += p.Rating
		experienceSum += float64(p.YearsExperience)
		priceSum += p.AverageProjectValue
		st.MinPrice = math.Min(st.MinPrice, p.AverageProjectValue)
		st.MaxPrice = math.Max(st.MaxPrice, p.AverageProjectValue)
	}

	n := float64(len(ranked))
	st.AverageRating = ratingSum / n
	st.AverageExperience = experienceSum / n
	st.AveragePrice = priceSum / n
	return st
}
