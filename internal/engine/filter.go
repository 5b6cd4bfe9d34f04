// internal/engine/filter.go
package engine

// FilterProviders keeps providers that share a specialty with the requirement,
// hold a preferred certification when any are listed, and lie within range.
// Input order is preserved.
func (e *Engine) FilterProviders(req RequirementSpec, pool []ServiceProvider) []ServiceProvider {
	required := tagSet(req.Categories)
	preferred := tagSet(req.PreferredCertifications)
	maxDistance := e.maxDistance(req)

	eligible := make([]ServiceProvider, 0, len(pool))
	for _, p := range pool {
		if !intersects(p.Specialties, required) {
			continue
		}
		if len(preferred) > 0 && !intersects(p.Certifications, preferred) {
			continue
		}
		if p.Distance > maxDistance {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}

// FilterSchemes keeps schemes covering at least one planned measure. An empty
// measure list matches every scheme.
func (e *Engine) FilterSchemes(req RequirementSpec, pool []Scheme) []Scheme {
	eligible := make([]Scheme, 0, len(pool))
	if len(req.Categories) == 0 {
		return append(eligible, pool...)
	}

	planned := tagSet(req.Categories)
	for _, s := range pool {
		if intersects(s.Measures, planned) {
			eligible = append(eligible, s)
		}
	}
	return eligible
}

func (e *Engine) maxDistance(req RequirementSpec) float64 {
	if req.MaxDistance > 0 {
		return req.MaxDistance
	}
	return e.params.DefaultMaxDistance
}
