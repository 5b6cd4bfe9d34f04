// internal/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"time"

	"matching-workers/internal/common/logger"
)

// Engine runs the matching pipelines. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	params   Params
	verifier CertificationVerifier
	log      logger.Logger
	now      func() time.Time
}

type Option func(*Engine)

func WithVerifier(v CertificationVerifier) Option {
	return func(e *Engine) { e.verifier = v }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(params Params, log logger.Logger, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine params: %w", err)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	e := &Engine{
		params: params,
		log:    log.WithFields(map[string]interface{}{"component": "engine"}),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Params() Params { return e.params }

type ContractorResult struct {
	Matches         []ScoredCandidate
	Statistics      *Statistics
	CommonRisks     []string
	Recommendations ContractorRecommendations
	TotalCandidates int
	EligibleCount   int
	VerifiedCount   int
	GeneratedAt     time.Time
}

type SubsidyResult struct {
	Combinations    []Combination
	EligibleSchemes []Scheme
	Deadlines       []DeadlineInsight
	Recommendations SubsidyRecommendations
	TotalCandidates int
	GeneratedAt     time.Time
}

// MatchContractors filters, verifies, scores and ranks pool against req.
func (e *Engine) MatchContractors(ctx context.Context, req RequirementSpec, pool []ServiceProvider) (*ContractorResult, error) {
	if err := validateAll(pool); err != nil {
		return nil, err
	}
	now := e.now()

	log := e.log.WithFields(map[string]interface{}{"path": "contractors"})
	log.Info("matching contractors", map[string]interface{}{
		"categories":  req.Categories,
		"location":    req.Location,
		"maxDistance": e.maxDistance(req),
		"budget":      req.Budget,
		"candidates":  len(pool),
	})

	eligible := e.FilterProviders(req, pool)
	log.Info("eligible contractors", map[string]interface{}{"eligible": len(eligible)})

	records, err := e.verifyAll(ctx, eligible)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredCandidate, 0, len(eligible))
	verified := 0
	for i, p := range eligible {
		sc := e.ScoreProvider(req, p, now)
		sc.Verification = records[i]
		if sc.Verified() {
			verified++
		}
		scored = append(scored, sc)
	}

	ranked := Rank(scored, byScore, e.params.ContractorWindow)
	stats := ComputeStatistics(ranked)
	risks := CommonRisks(ranked, e.params.CommonRiskThreshold)

	res := &ContractorResult{
		Matches:         ranked,
		Statistics:      stats,
		CommonRisks:     risks,
		Recommendations: e.RecommendContractors(req, ranked, stats, risks),
		TotalCandidates: len(pool),
		EligibleCount:   len(eligible),
		VerifiedCount:   verified,
		GeneratedAt:     now,
	}

	summary := map[string]interface{}{"ranked": len(ranked), "verified": verified, "commonRisks": len(risks)}
	if stats != nil {
		summary["averageRating"] = stats.AverageRating
		summary["averagePrice"] = stats.AveragePrice
	}
	log.Info("contractor matching complete", summary)

	return res, nil
}

// MatchSubsidies filters pool by planned measures and ranks every legal
// combination by total award.
func (e *Engine) MatchSubsidies(ctx context.Context, req RequirementSpec, pool []Scheme) (*SubsidyResult, error) {
	if err := validateAll(pool); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := e.now()

	log := e.log.WithFields(map[string]interface{}{"path": "subsidies"})
	log.Info("matching subsidies", map[string]interface{}{
		"plannedMeasures": req.Categories,
		"candidates":      len(pool),
	})

	eligible := e.FilterSchemes(req, pool)
	log.Info("eligible schemes", map[string]interface{}{"eligible": len(eligible)})

	ranked := Rank(e.EnumerateCombinations(eligible), byTotalAmount, 0)
	deadlines := AnalyzeDeadlines(eligible, now)

	res := &SubsidyResult{
		Combinations:    ranked,
		EligibleSchemes: eligible,
		Deadlines:       deadlines,
		Recommendations: e.RecommendSubsidies(ranked, deadlines),
		TotalCandidates: len(pool),
		GeneratedAt:     now,
	}

	summary := map[string]interface{}{"combinations": len(ranked)}
	if len(ranked) > 0 {
		summary["bestTotal"] = ranked[0].TotalAmount
	}
	log.Info("subsidy matching complete", summary)

	return res, nil
}
