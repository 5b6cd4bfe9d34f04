// internal/provider/postgres.go
package provider

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"fmt"
	"time"

	"matching-workers/internal/engine"

	"github.com/lib/pq"
)

// SchemeRegistry reads open subsidy schemes from Postgres.
type SchemeRegistry struct {
	db *sql.DB
}

func NewSchemeRegistry(db *sql.DB) *SchemeRegistry {
	return &SchemeRegistry{db: db}
}

const schemeColumns = `id, name, provider, measures, max_amount, remaining_budget, application_deadline`

// Schemes returns schemes whose deadline has not passed. When measures are
// planned only overlapping schemes are read.
func (r *SchemeRegistry) Schemes(ctx context.Context, req engine.RequirementSpec) ([]engine.Scheme, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if len(req.Categories) > 0 {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+schemeColumns+`
			FROM subsidy_schemes
			WHERE application_deadline >= CURRENT_DATE
			  AND measures && $1
			ORDER BY id`, pq.Array(lowerAll(req.Categories)))
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+schemeColumns+`
			FROM subsidy_schemes
			WHERE application_deadline >= CURRENT_DATE
			ORDER BY id`)
	}
	if err != nil {
		return nil, fmt.Errorf("query subsidy_schemes: %w", err)
	}
	defer rows.Close()

	schemes := []engine.Scheme{}
	for rows.Next() {
		var (
			s        engine.Scheme
			measures []string
			deadline time.Time
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Provider, pq.Array(&measures),
			&s.MaxAmount, &s.RemainingBudget, &deadline); err != nil {
			return nil, fmt.Errorf("scan subsidy scheme: %w", err)
		}
		s.Measures = measures
		s.Deadline = deadline.UTC()
		schemes = append(schemes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subsidy_schemes: %w", err)
	}
	return schemes, nil
}

// PostgresGeocoder resolves place names and postal codes from the locations table.
type PostgresGeocoder struct {
	db *sql.DB
}

func NewPostgresGeocoder(db *sql.DB) *PostgresGeocoder {
	return &PostgresGeocoder{db: db}
}

func (g *PostgresGeocoder) Locate(ctx context.Context, location string) (GeoPoint, error) {
	var p GeoPoint
	err := g.db.QueryRowContext(ctx, `
		SELECT latitude, longitude
		FROM locations
		WHERE lower(name) = $1 OR postal_code = $2
		LIMIT 1`, normalize(location), compactPostcode(location)).Scan(&p.Lat, &p.Lon)
	if stdErrors.Is(err, sql.ErrNoRows) {
		return GeoPoint{}, fmt.Errorf("%w: %s", ErrLocationNotFound, location)
	}
	if err != nil {
		return GeoPoint{}, fmt.Errorf("query locations: %w", err)
	}
	return p, nil
}
