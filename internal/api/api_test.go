package api

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-workers/internal/common/database"
	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeMatcher struct {
	contractorResp *models.ContractorMatchResponse
	subsidyResp    *models.SubsidyMatchResponse
	err            error
	gotContractor  models.ContractorMatchRequest
	gotSubsidy     models.SubsidyMatchRequest
}

func (f *fakeMatcher) MatchContractors(_ context.Context, req models.ContractorMatchRequest) (*models.ContractorMatchResponse, error) {
	f.gotContractor = req
	return f.contractorResp, f.err
}

func (f *fakeMatcher) MatchSubsidies(_ context.Context, req models.SubsidyMatchRequest) (*models.SubsidyMatchResponse, error) {
	f.gotSubsidy = req
	return f.subsidyResp, f.err
}

type fakeDependency struct {
	name string
	err  error
}

func (d fakeDependency) Name() string { return d.name }

func (d fakeDependency) Ping(context.Context) error { return d.err }

func newTestRouter(t *testing.T, m Matcher, deps ...database.Dependency) http.Handler {
	return NewRouter(RouterOptions{Matcher: m, Dependencies: deps, Logger: logger.NewTestLogger(t)})
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

// ==========================
// Match Endpoint Tests
// ==========================

func TestMatchContractors_OK(t *testing.T) {
	m := &fakeMatcher{contractorResp: &models.ContractorMatchResponse{RequestID: "req-1", Matches: []models.ContractorMatch{}}}
	router := newTestRouter(t, m)

	rec, body := do(t, router, http.MethodPost, "/api/v1/contractors/match",
		`{"projectType":["heat_pump"],"location":"Utrecht","budget":15000,"timeline":"asap","propertyType":"detached","maxDistance":30}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", body["requestId"])
	assert.Equal(t, []string{"heat_pump"}, m.gotContractor.ProjectType)
	require.NotNil(t, m.gotContractor.MaxDistance)
	assert.Equal(t, 30.0, *m.gotContractor.MaxDistance)
}

func TestMatchSubsidies_OK(t *testing.T) {
	m := &fakeMatcher{subsidyResp: &models.SubsidyMatchResponse{RequestID: "req-2", Combinations: []models.SubsidyCombination{}}}
	router := newTestRouter(t, m)

	rec, body := do(t, router, http.MethodPost, "/api/v1/subsidies/match",
		`{"address":"Oudegracht 1","postalCode":"3511 AA","energyLabel":"D","constructionYear":1975,"propertyType":"terraced","ownerOccupied":false}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-2", body["requestId"])
	require.NotNil(t, m.gotSubsidy.OwnerOccupied)
	assert.False(t, *m.gotSubsidy.OwnerOccupied)
}

func TestMatch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed json",
			path:       "/api/v1/contractors/match",
			body:       `{"projectType":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "wrong field type",
			path:       "/api/v1/subsidies/match",
			body:       `{"constructionYear":"old"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "constructionYear has an invalid type",
		},
		{
			name:       "non-numeric budget",
			path:       "/api/v1/contractors/match",
			body:       `{"projectType":["heat_pump"],"budget":"abc"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "budget has an invalid type",
		},
		{
			name:       "validation failure passes message through",
			path:       "/api/v1/contractors/match",
			body:       `{}`,
			err:        errors.NewValidationError("budget", "budget must be at least 1000"),
			wantStatus: http.StatusBadRequest,
			wantError:  "budget must be at least 1000",
		},
		{
			name:       "provider failure is hidden",
			path:       "/api/v1/subsidies/match",
			body:       `{}`,
			err:        errors.NewCandidateFetchFailedError("scheme-registry", stdErrors.New("pq: password authentication failed")),
			wantStatus: http.StatusInternalServerError,
			wantError:  internalErrorMessage,
		},
		{
			name:       "unexpected error",
			path:       "/api/v1/contractors/match",
			body:       `{}`,
			err:        stdErrors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  internalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeMatcher{err: tt.err})
			rec, body := do(t, router, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, body["error"])
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}
}

// ==========================
// Operational Endpoint Tests
// ==========================

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t, &fakeMatcher{}, fakeDependency{name: "postgres"})

	rec, body := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	rec, body = do(t, router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
}

func TestReady_DependencyDown(t *testing.T) {
	router := newTestRouter(t, &fakeMatcher{},
		fakeDependency{name: "postgres"},
		fakeDependency{name: "redis", err: stdErrors.New("redis ping failed")})

	rec, body := do(t, router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	deps := body["dependencies"].(map[string]interface{})
	assert.Equal(t, "ok", deps["postgres"])
	assert.Contains(t, deps["redis"], "redis ping failed")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeMatcher{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
