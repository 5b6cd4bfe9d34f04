// internal/matching/response.go
package matching

import (
	"fmt"

	"matching-workers/internal/common/validation"
)

// newContractorResponseSchema caps matches at the engine's contractor window.
func newContractorResponseSchema(window int) *validation.Schema {
	return validation.MustCompileSchema(fmt.Sprintf(contractorResponseContract, window))
}

const contractorResponseContract = `{
		"type": "object",
		"required": ["requestId", "matches", "summary", "recommendations", "lastUpdated"],
		"properties": {
			"requestId": {"type": "string", "minLength": 1},
			"lastUpdated": {"type": "string", "minLength": 1},
			"matches": {
				"type": "array",
				"maxItems": %d,
				"items": {
					"type": "object",
					"required": ["id", "matchScore", "matchReasons", "riskFactors", "availableFrom", "verified"],
					"properties": {
						"id": {"type": "string", "minLength": 1},
						"matchScore": {"type": "integer", "minimum": 0, "maximum": 100},
						"matchReasons": {"type": "array", "items": {"type": "string"}},
						"riskFactors": {"type": "array", "items": {"type": "string"}},
						"availableFrom": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
						"verified": {"type": "boolean"}
					}
				}
			},
			"summary": {
				"type": "object",
				"required": ["totalCandidates", "eligibleCount", "statistics", "commonRisks"],
				"properties": {
					"statistics": {"type": ["object", "null"]},
					"commonRisks": {"type": "array", "items": {"type": "string"}}
				}
			},
			"recommendations": {
				"type": "object",
				"required": ["nextSteps", "timeline", "riskMitigation"],
				"properties": {
					"nextSteps": {"type": "array", "items": {"type": "string"}},
					"timeline": {"type": "array"},
					"riskMitigation": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}`

// Response contract checked before a subsidy result leaves the service.
var subsidyResponseSchema = validation.MustCompileSchema(`{
		"type": "object",
		"required": ["requestId", "combinations", "summary", "recommendations", "lastUpdated"],
		"properties": {
			"requestId": {"type": "string", "minLength": 1},
			"lastUpdated": {"type": "string", "minLength": 1},
			"combinations": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["schemes", "totalAmount", "complexity", "successProbability", "processingTime"],
					"properties": {
						"schemes": {"type": "array", "minItems": 1, "maxItems": 2},
						"totalAmount": {"type": "number", "minimum": 0},
						"complexity": {"enum": ["low", "medium"]},
						"successProbability": {"type": "number", "minimum": 0, "maximum": 1}
					}
				}
			},
			"summary": {"type": "object", "required": ["totalSchemes", "eligibleSchemes", "totalCombinations"]},
			"recommendations": {
				"type": "object",
				"required": ["nextSteps", "applyWithinWeeks", "deadlineAnalysis"],
				"properties": {
					"applyWithinWeeks": {"type": "integer", "minimum": 0},
					"deadlineAnalysis": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {"urgencyScore": {"type": "integer", "minimum": 0, "maximum": 100}}
						}
					}
				}
			}
		}
	}`)
