// pkg/catalog/schema.go
package catalog

// Catalog is a JSON fixture of candidates for local development and demos.
type Catalog struct {
	Version     string       `json:"version"`
	LastUpdated string       `json:"lastUpdated"`
	Locations   []Location   `json:"locations"`
	Contractors []Contractor `json:"contractors"`
	Schemes     []Scheme     `json:"schemes"`
}

// Location maps a place name or postal code onto coordinates.
type Location struct {
	Name       string  `json:"name"`
	PostalCode string  `json:"postalCode,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type Contractor struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Location            string   `json:"location"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	Specialties         []string `json:"specialties"`
	Certifications      []string `json:"certifications"`
	Rating              float64  `json:"rating"`
	ReviewCount         int      `json:"reviewCount"`
	YearsExperience     int      `json:"yearsExperience"`
	Workload            string   `json:"workload"`
	AverageProjectValue float64  `json:"averageProjectValue"`
}

type Scheme struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Provider        string   `json:"provider"`
	Measures        []string `json:"measures"`
	MaxAmount       float64  `json:"maxAmount"`
	RemainingBudget float64  `json:"remainingBudget"`
	Deadline        string   `json:"deadline"` // YYYY-MM-DD
}
