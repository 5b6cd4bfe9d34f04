package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterProviders(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *ServiceProvider, req *RequirementSpec)
		wantHit bool
	}{
		{"matching specialty", func(p *ServiceProvider, req *RequirementSpec) {}, true},
		{"no shared specialty", func(p *ServiceProvider, req *RequirementSpec) { req.Categories = []string{"roofing"} }, false},
		{"tags compare case-insensitively", func(p *ServiceProvider, req *RequirementSpec) { req.Categories = []string{" Heat_Pump "} }, true},
		{"holds a preferred certification", func(p *ServiceProvider, req *RequirementSpec) {
			req.PreferredCertifications = []string{"KOMO", "ISSO"}
		}, true},
		{"lacks every preferred certification", func(p *ServiceProvider, req *RequirementSpec) {
			req.PreferredCertifications = []string{"KOMO"}
		}, false},
		{"exactly at max distance", func(p *ServiceProvider, req *RequirementSpec) { p.Distance = 50 }, true},
		{"beyond max distance", func(p *ServiceProvider, req *RequirementSpec) { p.Distance = 50.5 }, false},
		{"zero max distance uses default", func(p *ServiceProvider, req *RequirementSpec) {
			req.MaxDistance = 0
			p.Distance = 49
		}, true},
		{"custom radius", func(p *ServiceProvider, req *RequirementSpec) {
			req.MaxDistance = 10
			p.Distance = 15
		}, false},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := heatPumpProvider()
			req := heatPumpRequirement()
			tt.mutate(&p, &req)

			got := e.FilterProviders(req, []ServiceProvider{p})
			if tt.wantHit {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterProviders_PreservesOrder(t *testing.T) {
	e := newTestEngine(t)
	req := heatPumpRequirement()
	req.MaxDistance = 20

	got := e.FilterProviders(req, providerPool(10))
	assert.Equal(t, []string{"c-00", "c-01", "c-02", "c-03", "c-04", "c-05", "c-06"}, ids(wrap(got)))
}

func TestFilterSchemes(t *testing.T) {
	e := newTestEngine(t)
	pool := []Scheme{
		scheme("a", "RVO", 5000, 80, 100, "heat_pump"),
		scheme("b", "Gemeente", 3000, 80, 100, "insulation", "glazing"),
		scheme("c", "Provincie", 1000, 80, 100, "solar_panels"),
	}

	all := e.FilterSchemes(RequirementSpec{}, pool)
	assert.Len(t, all, 3)

	got := e.FilterSchemes(RequirementSpec{Categories: []string{"glazing", "heat_pump"}}, pool)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	assert.Empty(t, e.FilterSchemes(RequirementSpec{Categories: []string{"ventilation"}}, pool))
}

func wrap(ps []ServiceProvider) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(ps))
	for _, p := range ps {
		out = append(out, ScoredCandidate{Provider: p})
	}
	return out
}
