// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var workloads = map[string]bool{"low": true, "medium": true, "high": true}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &c, nil
}

func SaveCatalog(c *Catalog, path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Validate reports the first structural problem in the catalog.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool)
	for _, l := range c.Locations {
		if strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("location missing name")
		}
	}

	for _, ct := range c.Contractors {
		if ct.ID == "" {
			return fmt.Errorf("contractor missing id")
		}
		if seen[ct.ID] {
			return fmt.Errorf("duplicate id: %s", ct.ID)
		}
		seen[ct.ID] = true
		if len(ct.Specialties) == 0 {
			return fmt.Errorf("contractor %s has no specialties", ct.ID)
		}
		if ct.Rating < 0 || ct.Rating > 5 {
			return fmt.Errorf("contractor %s rating %.2f outside 0-5", ct.ID, ct.Rating)
		}
		if !workloads[ct.Workload] {
			return fmt.Errorf("contractor %s has unknown workload %q", ct.ID, ct.Workload)
		}
	}

	for _, s := range c.Schemes {
		if s.ID == "" {
			return fmt.Errorf("scheme missing id")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate id: %s", s.ID)
		}
		seen[s.ID] = true
		if s.Provider == "" {
			return fmt.Errorf("scheme %s missing provider", s.ID)
		}
		if s.RemainingBudget < 0 || s.RemainingBudget > 100 {
			return fmt.Errorf("scheme %s remaining budget %.1f outside 0-100", s.ID, s.RemainingBudget)
		}
		if _, err := time.Parse(DateLayout, s.Deadline); err != nil {
			return fmt.Errorf("scheme %s has invalid deadline %q", s.ID, s.Deadline)
		}
	}
	return nil
}

// FindLocation matches a place name or postal code, ignoring case and spaces.
func (c *Catalog) FindLocation(query string) (Location, bool) {
	q := normalize(query)
	for _, l := range c.Locations {
		if normalize(l.Name) == q || (l.PostalCode != "" && normalize(l.PostalCode) == q) {
			return l, true
		}
	}
	return Location{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}
