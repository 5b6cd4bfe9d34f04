// internal/workers/subsidy/match-subsidies/models.go
package matchsubsidies

import "matching-workers/internal/models"

// Input carries the property profile fields at the top level of the job variables.
type Input struct {
	models.SubsidyMatchRequest
}

type Output struct {
	SubsidyMatch *models.SubsidyMatchResponse `json:"subsidyMatch"`
	// ApplyWithinWeeks is lifted out for BPMN gateway conditions.
	ApplyWithinWeeks int  `json:"applyWithinWeeks"`
	HasCombinations  bool `json:"hasCombinations"`
}
