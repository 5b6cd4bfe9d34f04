// internal/provider/elasticsearch.go
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"matching-workers/internal/common/logger"
	"matching-workers/internal/engine"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const defaultDirectorySize = 200

// ContractorDirectory searches the contractor index for providers with a
// matching specialty inside the search radius, nearest first.
type ContractorDirectory struct {
	es       *elasticsearch.Client
	index    string
	geocoder Geocoder
	size     int
	log      logger.Logger
}

type DirectoryOption func(*ContractorDirectory)

// WithMaxCandidates caps how many of the nearest contractors one search returns.
func WithMaxCandidates(n int) DirectoryOption {
	return func(d *ContractorDirectory) {
		if n > 0 {
			d.size = n
		}
	}
}

func WithDirectoryLogger(log logger.Logger) DirectoryOption {
	return func(d *ContractorDirectory) { d.log = log }
}

func NewContractorDirectory(es *elasticsearch.Client, index string, geocoder Geocoder, opts ...DirectoryOption) *ContractorDirectory {
	d := &ContractorDirectory{es: es, index: index, geocoder: geocoder, size: defaultDirectorySize, log: logger.NewNoOpLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type contractorDoc struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	City                string   `json:"city"`
	Specialties         []string `json:"specialties"`
	Certifications      []string `json:"certifications"`
	Rating              float64  `json:"rating"`
	ReviewCount         int      `json:"review_count"`
	YearsExperience     int      `json:"years_experience"`
	Workload            string   `json:"workload"`
	AverageProjectValue float64  `json:"average_project_value"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value    int    `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []struct {
			Source contractorDoc `json:"_source"`
			Sort   []float64     `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
}

func (d *ContractorDirectory) Contractors(ctx context.Context, req engine.RequirementSpec) ([]engine.ServiceProvider, error) {
	origin, err := d.geocoder.Locate(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(d.buildQuery(req, origin))
	if err != nil {
		return nil, err
	}

	search := esapi.SearchRequest{
		Index: []string{d.index},
		Body:  strings.NewReader(string(body)),
	}
	res, err := search.Do(ctx, d.es)
	if err != nil {
		return nil, fmt.Errorf("contractor search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("contractor search failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode contractor search: %w", err)
	}
	if total := r.Hits.Total.Value; total > len(r.Hits.Hits) && len(r.Hits.Hits) == d.size {
		d.log.Warn("contractor search truncated to nearest candidates", map[string]interface{}{
			"location":      req.Location,
			"totalHits":     total,
			"totalRelation": r.Hits.Total.Relation,
			"returned":      len(r.Hits.Hits),
		})
	}

	providers := make([]engine.ServiceProvider, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := hit.Source
		p := engine.ServiceProvider{
			ID:                  doc.ID,
			Name:                doc.Name,
			Location:            doc.City,
			Specialties:         doc.Specialties,
			Certifications:      doc.Certifications,
			Rating:              doc.Rating,
			ReviewCount:         doc.ReviewCount,
			YearsExperience:     doc.YearsExperience,
			Workload:            engine.Workload(doc.Workload),
			AverageProjectValue: doc.AverageProjectValue,
		}
		if len(hit.Sort) > 0 {
			p.Distance = hit.Sort[0]
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func (d *ContractorDirectory) buildQuery(req engine.RequirementSpec, origin GeoPoint) map[string]interface{} {
	point := map[string]interface{}{"lat": origin.Lat, "lon": origin.Lon}
	radius := req.MaxDistance
	if radius <= 0 {
		radius = engine.DefaultParams().DefaultMaxDistance
	}

	filters := []interface{}{
		map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%gkm", radius),
				"location": point,
			},
		},
	}
	if len(req.Categories) > 0 {
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{"specialties": lowerAll(req.Categories)},
		})
	}

	return map[string]interface{}{
		"size": d.size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"filter": filters},
		},
		"sort": []interface{}{
			map[string]interface{}{
				"_geo_distance": map[string]interface{}{
					"location": point,
					"order":    "asc",
					"unit":     "km",
				},
			},
		},
	}
}
