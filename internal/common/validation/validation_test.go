package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Tags       []string `json:"tags" validate:"required,min=1,dive,required"`
	Name       string   `json:"name" validate:"required,min=2"`
	Amount     float64  `json:"amount" validate:"required,min=1000"`
	Radius     *float64 `json:"radius" validate:"omitempty,min=5,max=100"`
	PostalCode string   `json:"postalCode" validate:"omitempty,postcode"`
	Year       int      `json:"year" validate:"omitempty,min=1800,notfutureyear"`
}

func validSample() sample {
	return sample{Tags: []string{"heat_pump"}, Name: "ok", Amount: 5000}
}

func fixedClock() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }

func TestValidator_Struct(t *testing.T) {
	tooFar := 150.0

	tests := []struct {
		name      string
		mutate    func(s *sample)
		wantField string
		wantMsg   string
	}{
		{"valid", func(s *sample) {}, "", ""},
		{"empty list", func(s *sample) { s.Tags = []string{} }, "tags", "tags must contain at least 1 item(s)"},
		{"missing list", func(s *sample) { s.Tags = nil }, "tags", "tags is required"},
		{"blank list item", func(s *sample) { s.Tags = []string{""} }, "tags[0]", "tags[0] is required"},
		{"short string", func(s *sample) { s.Name = "x" }, "name", "name must be at least 2 character(s)"},
		{"number below min", func(s *sample) { s.Amount = 999 }, "amount", "amount must be at least 1000"},
		{"pointer above max", func(s *sample) { s.Radius = &tooFar }, "radius", "radius must be at most 100"},
		{"bad postcode", func(s *sample) { s.PostalCode = "0123 AB" }, "postalCode", "postalCode must be a valid postal code (e.g. 1234 AB)"},
		{"future year", func(s *sample) { s.Year = 2027 }, "year", "year must not be later than the current year"},
		{"first violation wins", func(s *sample) {
			s.Name = ""
			s.Amount = 1
		}, "name", "name is required"},
	}

	v := NewWithClock(fixedClock)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.mutate(&s)

			res := v.Struct(s)
			if tt.wantField == "" {
				assert.True(t, res.Valid)
				assert.Nil(t, res.First())
				return
			}
			require.False(t, res.Valid)
			first := res.First()
			require.NotNil(t, first)
			assert.Equal(t, tt.wantField, first.Field)
			assert.Equal(t, tt.wantMsg, first.Message)
		})
	}
}

func TestPostalCodePattern(t *testing.T) {
	for _, ok := range []string{"1234 AB", "1234AB", "9999zz"} {
		assert.True(t, PostalCodePattern.MatchString(ok), ok)
	}
	for _, bad := range []string{"0123 AB", "123 AB", "1234  AB", "1234 A1", "12345"} {
		assert.False(t, PostalCodePattern.MatchString(bad), bad)
	}
}

func TestSchema_Validate(t *testing.T) {
	s := MustCompileSchema(`{
		"type": "object",
		"required": ["requestId", "matches"],
		"properties": {
			"requestId": {"type": "string", "minLength": 1},
			"matches": {"type": "array", "items": {"type": "object", "required": ["matchScore"],
				"properties": {"matchScore": {"type": "integer", "minimum": 0, "maximum": 100}}}}
		}
	}`)

	ok := s.Validate(map[string]interface{}{
		"requestId": "r-1",
		"matches":   []map[string]interface{}{{"matchScore": 91}},
	})
	assert.True(t, ok.Valid)

	bad := s.Validate(map[string]interface{}{
		"requestId": "r-1",
		"matches":   []map[string]interface{}{{"matchScore": 120}},
	})
	require.False(t, bad.Valid)
	assert.Equal(t, "matches.0.matchScore", bad.First().Field)

	_, err := CompileSchema(`{"type": 12}`)
	assert.Error(t, err)
}
