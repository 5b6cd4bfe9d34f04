package matchsubsidies

import (
	"context"
	"encoding/json"
	"testing"

	"matching-workers/internal/common/errors"
	"matching-workers/internal/common/logger"
	"matching-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) MatchSubsidies(ctx context.Context, req models.SubsidyMatchRequest) (*models.SubsidyMatchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubsidyMatchResponse), args.Error(1)
}

func createTestInput() *Input {
	return &Input{SubsidyMatchRequest: models.SubsidyMatchRequest{
		Address:          "Oudegracht 1",
		PostalCode:       "3511 AA",
		EnergyLabel:      "E",
		ConstructionYear: 1968,
		PropertyType:     "terraced",
		PlannedMeasures:  []string{"insulation"},
	}}
}

func TestInput_DecodesFlatVariables(t *testing.T) {
	var input Input
	err := json.Unmarshal([]byte(`{"address":"Oudegracht 1","postalCode":"3511AA","energyLabel":"E",
		"constructionYear":1968,"propertyType":"terraced","householdIncome":42000,"plannedMeasures":["insulation"]}`), &input)
	require.NoError(t, err)

	assert.Equal(t, "3511AA", input.PostalCode)
	require.NotNil(t, input.HouseholdIncome)
	assert.Equal(t, 42000.0, *input.HouseholdIncome)
	assert.Nil(t, input.OwnerOccupied)
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		resp       *models.SubsidyMatchResponse
		wantWeeks  int
		wantCombos bool
	}{
		{
			name: "urgent combination",
			resp: &models.SubsidyMatchResponse{
				RequestID:       "req-1",
				Combinations:    []models.SubsidyCombination{{TotalAmount: 5000}},
				Recommendations: models.SubsidyRecommendations{ApplyWithinWeeks: 2},
			},
			wantWeeks:  2,
			wantCombos: true,
		},
		{
			name:       "nothing eligible",
			resp:       &models.SubsidyMatchResponse{RequestID: "req-2", Combinations: []models.SubsidyCombination{}},
			wantWeeks:  0,
			wantCombos: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := new(MockMatcher)
			matcher.On("MatchSubsidies", mock.Anything, mock.Anything).Return(tt.resp, nil)

			handler := NewHandler(nil, matcher, logger.NewTestLogger(t))
			output, err := handler.Execute(context.Background(), createTestInput())
			require.NoError(t, err)

			assert.Equal(t, tt.wantWeeks, output.ApplyWithinWeeks)
			assert.Equal(t, tt.wantCombos, output.HasCombinations)
			assert.Same(t, tt.resp, output.SubsidyMatch)
		})
	}
}

func TestHandler_Execute_PropagatesErrors(t *testing.T) {
	matcher := new(MockMatcher)
	matcher.On("MatchSubsidies", mock.Anything, mock.Anything).
		Return(nil, errors.NewValidationError("postalCode", "postalCode must be a valid postal code (e.g. 1234 AB)"))

	handler := NewHandler(DefaultConfig(), matcher, logger.NewTestLogger(t))
	_, err := handler.Execute(context.Background(), createTestInput())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.AsStandardError(err).Code)
}
