// internal/engine/verify.go
package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// VerificationRecord is what a certification registry reports for one provider.
type VerificationRecord struct {
	CandidateID    string    `json:"candidateId"`
	Verified       bool      `json:"verified"`
	Certifications []string  `json:"certifications,omitempty"`
	Source         string    `json:"source,omitempty"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// CertificationVerifier looks up a provider's certifications. Any error means
// "unavailable" for that provider only.
type CertificationVerifier interface {
	Verify(ctx context.Context, p ServiceProvider) (*VerificationRecord, error)
}

// verifyAll fans out one lookup per provider over a bounded pool. Results are
// index-aligned with providers; failed lookups leave a nil entry. The only error
// returned is the caller's context error.
func (e *Engine) verifyAll(ctx context.Context, providers []ServiceProvider) ([]*VerificationRecord, error) {
	records := make([]*VerificationRecord, len(providers))
	if e.verifier == nil || len(providers) == 0 {
		return records, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.params.VerificationConcurrency)

	for i, p := range providers {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			callCtx, cancel := context.WithTimeout(gctx, e.params.VerificationTimeout)
			defer cancel()

			rec, err := e.verifier.Verify(callCtx, p)
			if err != nil {
				e.log.Warn("certification verification unavailable", map[string]interface{}{
					"candidateId": p.ID,
					"error":       err.Error(),
				})
				return nil
			}
			records[i] = rec
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
