// internal/provider/certification.go
package provider

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"matching-workers/internal/common/errors"
	commonhttp "matching-workers/internal/common/http"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"
	"matching-workers/internal/engine"

	"github.com/redis/go-redis/v9"
)

// HTTPVerifier asks a certification registry about one provider at a time.
type HTTPVerifier struct {
	baseURL string
	client  *commonhttp.Client
	now     func() time.Time
}

func NewHTTPVerifier(baseURL string, client *commonhttp.Client) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type registryResponse struct {
	Verified       bool     `json:"verified"`
	Certifications []string `json:"certifications"`
	Source         string   `json:"source"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, p engine.ServiceProvider) (*engine.VerificationRecord, error) {
	endpoint := fmt.Sprintf("%s/certifications/%s", v.baseURL, url.PathEscape(p.ID))

	var body registryResponse
	if err := v.client.GetJSON(ctx, endpoint, &body); err != nil {
		// 404 means the registry has no record, which is an answer.
		var statusErr *commonhttp.StatusError
		if stdErrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return &engine.VerificationRecord{CandidateID: p.ID, Verified: false, Source: "registry", CheckedAt: v.now()}, nil
		}
		return nil, errors.NewVerificationUnavailableError(p.ID, err)
	}

	source := body.Source
	if source == "" {
		source = "registry"
	}
	return &engine.VerificationRecord{
		CandidateID:    p.ID,
		Verified:       body.Verified,
		Certifications: body.Certifications,
		Source:         source,
		CheckedAt:      v.now(),
	}, nil
}

// CachedVerifier keeps successful lookups in Redis. Cache failures fall
// through to the wrapped verifier.
type CachedVerifier struct {
	next  engine.CertificationVerifier
	redis *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedVerifier(next engine.CertificationVerifier, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedVerifier {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedVerifier{next: next, redis: rdb, ttl: ttl, log: log}
}

func certificationKey(id string) string {
	return "certification:" + id
}

func (c *CachedVerifier) Verify(ctx context.Context, p engine.ServiceProvider) (*engine.VerificationRecord, error) {
	key := certificationKey(p.ID)

	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var rec engine.VerificationRecord
		if err := json.Unmarshal([]byte(val), &rec); err == nil {
			return &rec, nil
		}
	} else if err != redis.Nil {
		c.log.Debug("certification cache read failed", map[string]interface{}{
			"candidateId": p.ID,
			"error":       err.Error(),
		})
	}

	rec, err := c.next.Verify(ctx, p)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rec); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.Debug("certification cache write failed", map[string]interface{}{
				"candidateId": p.ID,
				"error":       err.Error(),
			})
		}
	}
	return rec, nil
}

// InstrumentedVerifier counts lookup outcomes.
type InstrumentedVerifier struct {
	next engine.CertificationVerifier
}

func NewInstrumentedVerifier(next engine.CertificationVerifier) *InstrumentedVerifier {
	return &InstrumentedVerifier{next: next}
}

func (v *InstrumentedVerifier) Verify(ctx context.Context, p engine.ServiceProvider) (*engine.VerificationRecord, error) {
	rec, err := v.next.Verify(ctx, p)
	switch {
	case err != nil:
		metrics.VerificationLookups.WithLabelValues("unavailable").Inc()
	case rec.Verified:
		metrics.VerificationLookups.WithLabelValues("verified").Inc()
	default:
		metrics.VerificationLookups.WithLabelValues("unverified").Inc()
	}
	return rec, err
}
