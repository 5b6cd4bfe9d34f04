package provider

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"testing"
	"time"

	"matching-workers/internal/engine"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var schemeCols = []string{"id", "name", "provider", "measures", "max_amount", "remaining_budget", "application_deadline"}

func TestSchemeRegistry_Schemes(t *testing.T) {
	db, mock := setupMockDB(t)
	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM subsidy_schemes WHERE application_deadline >= CURRENT_DATE AND measures && \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(schemeCols).
			AddRow("isde", "ISDE", "RVO", []byte("{heat_pump,insulation}"), 3000.0, 60.0, deadline).
			AddRow("warmtefonds", "Warmtefonds", "NWF", []byte("{heat_pump}"), 25000.0, 80.0, deadline))

	schemes, err := NewSchemeRegistry(db).Schemes(context.Background(), engine.RequirementSpec{Categories: []string{"Heat_Pump"}})
	require.NoError(t, err)
	require.Len(t, schemes, 2)
	assert.Equal(t, "isde", schemes[0].ID)
	assert.Equal(t, []string{"heat_pump", "insulation"}, schemes[0].Measures)
	assert.Equal(t, 3000.0, schemes[0].MaxAmount)
	assert.Equal(t, deadline, schemes[0].Deadline)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemeRegistry_NoMeasures(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT .* FROM subsidy_schemes WHERE application_deadline >= CURRENT_DATE ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(schemeCols))

	schemes, err := NewSchemeRegistry(db).Schemes(context.Background(), engine.RequirementSpec{})
	require.NoError(t, err)
	assert.NotNil(t, schemes)
	assert.Empty(t, schemes)
}

func TestSchemeRegistry_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`FROM subsidy_schemes`).WillReturnError(stdErrors.New("connection reset"))

	_, err := NewSchemeRegistry(db).Schemes(context.Background(), engine.RequirementSpec{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgresGeocoder_Locate(t *testing.T) {
	db, mock := setupMockDB(t)
	geo := NewPostgresGeocoder(db)

	mock.ExpectQuery(`SELECT latitude, longitude FROM locations`).
		WithArgs("3511 aa", "3511AA").
		WillReturnRows(sqlmock.NewRows([]string{"latitude", "longitude"}).AddRow(52.09, 5.12))

	p, err := geo.Locate(context.Background(), "3511 aa")
	require.NoError(t, err)
	assert.Equal(t, GeoPoint{Lat: 52.09, Lon: 5.12}, p)

	mock.ExpectQuery(`SELECT latitude, longitude FROM locations`).
		WillReturnRows(sqlmock.NewRows([]string{"latitude", "longitude"}))

	_, err = geo.Locate(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}
