// Package provider supplies candidate pools and certification lookups to the
// matching engine from Postgres, Elasticsearch, a JSON catalog and a remote
// certification registry.
package provider

import (
	"context"
	"errors"

	"matching-workers/internal/engine"
)

// ErrLocationNotFound is returned when a requested location has no coordinates.
var ErrLocationNotFound = errors.New("location not found")

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type ContractorSource interface {
	Contractors(ctx context.Context, req engine.RequirementSpec) ([]engine.ServiceProvider, error)
}

type SchemeSource interface {
	Schemes(ctx context.Context, req engine.RequirementSpec) ([]engine.Scheme, error)
}

type Geocoder interface {
	Locate(ctx context.Context, location string) (GeoPoint, error)
}

func lowerAll(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, normalize(t))
	}
	return out
}
