// internal/workers/contractor/match-contractors/models.go
package matchcontractors

import "matching-workers/internal/models"

// Input carries the contractor request fields at the top level of the job variables.
type Input struct {
	models.ContractorMatchRequest
}

type Output struct {
	ContractorMatch *models.ContractorMatchResponse `json:"contractorMatch"`
}
