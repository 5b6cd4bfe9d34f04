// internal/provider/catalog.go
package provider

import (
	"context"
	"fmt"
	"time"

	"matching-workers/internal/engine"
	"matching-workers/pkg/catalog"
)

// CatalogSource serves contractors, schemes and locations from a JSON catalog.
// It applies the same prefilters as the database sources: the search radius
// for contractors and open deadlines for schemes.
type CatalogSource struct {
	catalog *catalog.Catalog
	now     func() time.Time
}

func NewCatalogSource(c *catalog.Catalog, now func() time.Time) *CatalogSource {
	if now == nil {
		now = time.Now
	}
	return &CatalogSource{catalog: c, now: now}
}

func LoadCatalogSource(path string) (*CatalogSource, error) {
	c, err := catalog.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return NewCatalogSource(c, nil), nil
}

func (s *CatalogSource) Locate(_ context.Context, location string) (GeoPoint, error) {
	l, ok := s.catalog.FindLocation(location)
	if !ok {
		return GeoPoint{}, fmt.Errorf("%w: %s", ErrLocationNotFound, location)
	}
	return GeoPoint{Lat: l.Latitude, Lon: l.Longitude}, nil
}

func (s *CatalogSource) Contractors(ctx context.Context, req engine.RequirementSpec) ([]engine.ServiceProvider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	origin, err := s.Locate(ctx, req.Location)
	if err != nil {
		return nil, err
	}
	radius := req.MaxDistance
	if radius <= 0 {
		radius = engine.DefaultParams().DefaultMaxDistance
	}

	providers := make([]engine.ServiceProvider, 0, len(s.catalog.Contractors))
	for _, c := range s.catalog.Contractors {
		d := DistanceKm(origin, GeoPoint{Lat: c.Latitude, Lon: c.Longitude})
		if d > radius {
			continue
		}
		providers = append(providers, engine.ServiceProvider{
			ID:                  c.ID,
			Name:                c.Name,
			Location:            c.Location,
			Distance:            d,
			Specialties:         c.Specialties,
			Certifications:      c.Certifications,
			Rating:              c.Rating,
			ReviewCount:         c.ReviewCount,
			YearsExperience:     c.YearsExperience,
			Workload:            engine.Workload(c.Workload),
			AverageProjectValue: c.AverageProjectValue,
		})
	}
	return providers, nil
}

func (s *CatalogSource) Schemes(ctx context.Context, _ engine.RequirementSpec) ([]engine.Scheme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	today := s.now().UTC().Truncate(24 * time.Hour)

	schemes := make([]engine.Scheme, 0, len(s.catalog.Schemes))
	for _, sc := range s.catalog.Schemes {
		deadline, err := time.Parse(catalog.DateLayout, sc.Deadline)
		if err != nil {
			return nil, fmt.Errorf("scheme %s: %w", sc.ID, err)
		}
		if deadline.Before(today) {
			continue
		}
		schemes = append(schemes, engine.Scheme{
			ID:              sc.ID,
			Name:            sc.Name,
			Provider:        sc.Provider,
			Measures:        sc.Measures,
			MaxAmount:       sc.MaxAmount,
			RemainingBudget: sc.RemainingBudget,
			Deadline:        deadline,
		})
	}
	return schemes, nil
}
