package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: matching-workers
catalog:
  path: ./configs/catalog.json
workers:
  match-contractors:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 0.30, cfg.Matching.BudgetTolerance)
	assert.Equal(t, 0.85, cfg.Matching.SingleSuccessProbability)
	assert.Equal(t, 0.70, cfg.Matching.PairSuccessProbability)
	assert.Equal(t, 10, cfg.Matching.ContractorWindow)
	assert.Equal(t, 7, cfg.Matching.LeadTimeDays.Low)
	assert.Equal(t, 28, cfg.Matching.LeadTimeDays.High)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, "contractors", cfg.Database.Elasticsearch.ContractorIndex)
	assert.Equal(t, 200, cfg.Database.Elasticsearch.MaxCandidates)

	wcfg := GetWorkerConfig(cfg, "match-contractors")
	assert.True(t, wcfg.Enabled)
	assert.Equal(t, 5, wcfg.MaxJobsActive)
	assert.Equal(t, 3, wcfg.MaxRetries)
	assert.True(t, IsWorkerEnabled(cfg, "send-match-summary"))
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_BROKER", "zeebe:26500")
	path := writeConfig(t, `
camunda:
  enabled: true
  broker_address: ${TEST_BROKER}
catalog:
  path: catalog.json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_ZeroBudgetTolerance(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: ./configs/catalog.json
matching:
  budget_tolerance: 0
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Matching.BudgetTolerance)
	assert.Equal(t, 0.85, cfg.Matching.SingleSuccessProbability)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "live sources need postgres",
			body:    "app:\n  name: x\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name: "verification needs base url",
			body: `
catalog:
  path: c.json
verification:
  enabled: true
`,
			wantErr: "verification.base_url is required",
		},
		{
			name: "tolerance out of range",
			body: `
catalog:
  path: c.json
matching:
  budget_tolerance: 1.5
`,
			wantErr: "matching.budget_tolerance",
		},
		{
			name: "tracing without endpoint",
			body: `
catalog:
  path: c.json
tracing:
  enabled: true
`,
			wantErr: "tracing.endpoint is required",
		},
		{
			name: "enabled camunda needs broker",
			body: `
catalog:
  path: c.json
camunda:
  enabled: true
`,
			wantErr: "camunda.broker_address is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VERIFICATION_BASE_URL", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, GetDuration(2000))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "matching", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=matching sslmode=disable", p.GetDSN())
}
