package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() *Catalog {
	return &Catalog{
		Version: "1.0.0",
		Locations: []Location{
			{Name: "Utrecht", PostalCode: "3511 AA", Latitude: 52.0907, Longitude: 5.1214},
		},
		Contractors: []Contractor{{
			ID: "c-1", Name: "Warmte BV", Location: "Utrecht", Specialties: []string{"heat_pump"},
			Rating: 4.5, ReviewCount: 40, YearsExperience: 8, Workload: "low", AverageProjectValue: 15000,
		}},
		Schemes: []Scheme{{
			ID: "isde", Name: "ISDE", Provider: "RVO", Measures: []string{"heat_pump"},
			MaxAmount: 3000, RemainingBudget: 60, Deadline: "2026-12-31",
		}},
	}
}

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, SaveCatalog(sampleCatalog(), path))

	loaded, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCatalog(), loaded)
	assert.NoError(t, loaded.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Catalog)
		wantErr string
	}{
		{"duplicate ids across kinds", func(c *Catalog) { c.Schemes[0].ID = "c-1" }, "duplicate id: c-1"},
		{"bad workload", func(c *Catalog) { c.Contractors[0].Workload = "busy" }, "unknown workload"},
		{"rating out of range", func(c *Catalog) { c.Contractors[0].Rating = 6 }, "outside 0-5"},
		{"missing provider", func(c *Catalog) { c.Schemes[0].Provider = "" }, "missing provider"},
		{"bad deadline", func(c *Catalog) { c.Schemes[0].Deadline = "31-12-2026" }, "invalid deadline"},
		{"budget out of range", func(c *Catalog) { c.Schemes[0].RemainingBudget = 101 }, "outside 0-100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sampleCatalog()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFindLocation(t *testing.T) {
	c := sampleCatalog()

	l, ok := c.FindLocation("utrecht")
	assert.True(t, ok)
	assert.Equal(t, "Utrecht", l.Name)

	_, ok = c.FindLocation("3511aa")
	assert.True(t, ok)

	_, ok = c.FindLocation("Amsterdam")
	assert.False(t, ok)
}
