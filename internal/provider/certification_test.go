package provider

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	commonhttp "matching-workers/internal/common/http"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/common/metrics"
	"matching-workers/internal/engine"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func registryServer(t *testing.T, calls *int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		switch r.URL.Path {
		case "/certifications/c-1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"verified": true, "certifications": ["ISSO", "F-gassen"], "source": "kiwa"}`))
		case "/certifications/unknown":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPVerifier_Verify(t *testing.T) {
	var calls int32
	srv := registryServer(t, &calls)
	v := NewHTTPVerifier(srv.URL+"/", commonhttp.NewClient(time.Second))

	rec, err := v.Verify(context.Background(), engine.ServiceProvider{ID: "c-1"})
	require.NoError(t, err)
	assert.True(t, rec.Verified)
	assert.Equal(t, "kiwa", rec.Source)
	assert.Equal(t, []string{"ISSO", "F-gassen"}, rec.Certifications)

	rec, err = v.Verify(context.Background(), engine.ServiceProvider{ID: "unknown"})
	require.NoError(t, err)
	assert.False(t, rec.Verified)

	_, err = v.Verify(context.Background(), engine.ServiceProvider{ID: "broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VERIFICATION_UNAVAILABLE")
}

func TestCachedVerifier_CachesSuccess(t *testing.T) {
	var calls int32
	srv := registryServer(t, &calls)
	rdb, mr := setupRedis(t)

	v := NewCachedVerifier(NewHTTPVerifier(srv.URL, commonhttp.NewClient(time.Second)), rdb, time.Hour, logger.NewTestLogger(t))

	first, err := v.Verify(context.Background(), engine.ServiceProvider{ID: "c-1"})
	require.NoError(t, err)
	second, err := v.Verify(context.Background(), engine.ServiceProvider{ID: "c-1"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first.Certifications, second.Certifications)
	assert.True(t, mr.Exists("certification:c-1"))
	assert.Equal(t, time.Hour, mr.TTL("certification:c-1"))
}

func TestCachedVerifier_DoesNotCacheFailures(t *testing.T) {
	var calls int32
	srv := registryServer(t, &calls)
	rdb, mr := setupRedis(t)

	v := NewCachedVerifier(NewHTTPVerifier(srv.URL, commonhttp.NewClient(time.Second)), rdb, time.Hour, nil)

	_, err := v.Verify(context.Background(), engine.ServiceProvider{ID: "broken"})
	require.Error(t, err)
	assert.False(t, mr.Exists("certification:broken"))
}

type fixedVerifier struct {
	rec *engine.VerificationRecord
	err error
}

func (f fixedVerifier) Verify(context.Context, engine.ServiceProvider) (*engine.VerificationRecord, error) {
	return f.rec, f.err
}

func TestCachedVerifier_RedisUnavailable(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	rec := &engine.VerificationRecord{
		CandidateID: "c-1",
		Verified:    true,
		Source:      "kiwa",
		CheckedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	mock.ExpectGet("certification:c-1").SetErr(stdErrors.New("connection refused"))
	mock.ExpectSet("certification:c-1", data, time.Hour).SetErr(stdErrors.New("connection refused"))

	v := NewCachedVerifier(fixedVerifier{rec: rec}, rdb, time.Hour, logger.NewTestLogger(t))
	got, err := v.Verify(context.Background(), engine.ServiceProvider{ID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstrumentedVerifier_CountsOutcomes(t *testing.T) {
	before := testutil.ToFloat64(metrics.VerificationLookups.WithLabelValues("unavailable"))

	v := NewInstrumentedVerifier(fixedVerifier{err: stdErrors.New("timeout")})
	_, err := v.Verify(context.Background(), engine.ServiceProvider{ID: "c-1"})
	require.Error(t, err)

	after := testutil.ToFloat64(metrics.VerificationLookups.WithLabelValues("unavailable"))
	assert.Equal(t, before+1, after)
}
