package provider

import (
	"context"
	"testing"
	"time"

	"matching-workers/internal/engine"
	"matching-workers/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Locations: []catalog.Location{
			{Name: "Utrecht", PostalCode: "3511 AA", Latitude: 52.0907, Longitude: 5.1214},
		},
		Contractors: []catalog.Contractor{
			{ID: "near", Location: "Zeist", Latitude: 52.0894, Longitude: 5.2330, Specialties: []string{"heat_pump"}, Rating: 4.5, Workload: "low"},
			{ID: "far", Location: "Groningen", Latitude: 53.2194, Longitude: 6.5665, Specialties: []string{"heat_pump"}, Rating: 4.9, Workload: "low"},
		},
		Schemes: []catalog.Scheme{
			{ID: "open", Provider: "RVO", Measures: []string{"heat_pump"}, RemainingBudget: 50, Deadline: "2026-06-30"},
			{ID: "closed", Provider: "RVO", Measures: []string{"heat_pump"}, RemainingBudget: 50, Deadline: "2026-01-31"},
		},
	}
}

func TestCatalogSource_Contractors(t *testing.T) {
	src := NewCatalogSource(testCatalog(), nil)

	providers, err := src.Contractors(context.Background(), engine.RequirementSpec{Location: "3511AA", MaxDistance: 50})
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "near", providers[0].ID)
	assert.InDelta(t, 7.6, providers[0].Distance, 0.5)

	_, err = src.Contractors(context.Background(), engine.RequirementSpec{Location: "Atlantis"})
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestCatalogSource_Schemes(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	src := NewCatalogSource(testCatalog(), now)

	schemes, err := src.Schemes(context.Background(), engine.RequirementSpec{})
	require.NoError(t, err)
	require.Len(t, schemes, 1)
	assert.Equal(t, "open", schemes[0].ID)
	assert.Equal(t, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), schemes[0].Deadline)
}

func TestCatalogSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCatalogSource(testCatalog(), nil).Schemes(ctx, engine.RequirementSpec{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDistanceKm(t *testing.T) {
	amsterdam := GeoPoint{Lat: 52.3676, Lon: 4.9041}
	rotterdam := GeoPoint{Lat: 51.9244, Lon: 4.4777}

	assert.InDelta(t, 57.0, DistanceKm(amsterdam, rotterdam), 1.0)
	assert.Equal(t, 0.0, DistanceKm(amsterdam, amsterdam))
}
