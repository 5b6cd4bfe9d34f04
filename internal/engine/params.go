// internal/engine/params.go
package engine

import (
	"fmt"
	"time"
)

// Params are the engine's tunable constants.
type Params struct {
	BudgetTolerance          float64
	SingleSuccessProbability float64
	PairSuccessProbability   float64
	ContractorWindow         int
	CommonRiskThreshold      float64
	SuggestedBudgetMarkup    float64
	DefaultMaxDistance       float64
	LeadTimes                map[Workload]time.Duration
	VerificationConcurrency  int
	VerificationTimeout      time.Duration
}

func DefaultParams() Params {
	return Params{
		BudgetTolerance:          0.30,
		SingleSuccessProbability: 0.85,
		PairSuccessProbability:   0.70,
		ContractorWindow:         10,
		CommonRiskThreshold:      0.30,
		SuggestedBudgetMarkup:    1.10,
		DefaultMaxDistance:       50,
		LeadTimes: map[Workload]time.Duration{
			WorkloadLow:    7 * 24 * time.Hour,
			WorkloadMedium: 14 * 24 * time.Hour,
			WorkloadHigh:   28 * 24 * time.Hour,
		},
		VerificationConcurrency: 4,
		VerificationTimeout:     2 * time.Second,
	}
}

func (p Params) Validate() error {
	if p.BudgetTolerance < 0 || p.BudgetTolerance >= 1 {
		return fmt.Errorf("budget tolerance must be in [0, 1), got %v", p.BudgetTolerance)
	}
	if p.SingleSuccessProbability <= 0 || p.SingleSuccessProbability > 1 {
		return fmt.Errorf("single success probability must be in (0, 1], got %v", p.SingleSuccessProbability)
	}
	if p.PairSuccessProbability <= 0 || p.PairSuccessProbability > 1 {
		return fmt.Errorf("pair success probability must be in (0, 1], got %v", p.PairSuccessProbability)
	}
	if p.ContractorWindow <= 0 {
		return fmt.Errorf("contractor window must be positive, got %d", p.ContractorWindow)
	}
	if p.CommonRiskThreshold <= 0 || p.CommonRiskThreshold > 1 {
		return fmt.Errorf("common risk threshold must be in (0, 1], got %v", p.CommonRiskThreshold)
	}
	if p.SuggestedBudgetMarkup < 1 {
		return fmt.Errorf("suggested budget markup must be at least 1, got %v", p.SuggestedBudgetMarkup)
	}
	if p.DefaultMaxDistance <= 0 {
		return fmt.Errorf("default max distance must be positive, got %v", p.DefaultMaxDistance)
	}
	for _, w := range []Workload{WorkloadLow, WorkloadMedium, WorkloadHigh} {
		if _, ok := p.LeadTimes[w]; !ok {
			return fmt.Errorf("missing lead time for workload %q", w)
		}
	}
	if p.VerificationConcurrency <= 0 {
		return fmt.Errorf("verification concurrency must be positive, got %d", p.VerificationConcurrency)
	}
	if p.VerificationTimeout <= 0 {
		return fmt.Errorf("verification timeout must be positive, got %v", p.VerificationTimeout)
	}
	return nil
}
