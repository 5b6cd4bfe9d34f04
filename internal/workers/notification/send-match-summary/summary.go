// internal/workers/notification/send-match-summary/summary.go
package sendmatchsummary

import (
	"fmt"
	"strings"
)

const maxListedContractors = 3

func buildSubject(input *Input) string {
	switch {
	case input.ContractorMatch != nil && input.SubsidyMatch != nil:
		return "Your contractor and subsidy matches"
	case input.ContractorMatch != nil:
		return "Your contractor matches"
	default:
		return "Your subsidy options"
	}
}

func buildBody(input *Input) string {
	var b strings.Builder

	if cm := input.ContractorMatch; cm != nil {
		if len(cm.Matches) == 0 {
			b.WriteString("We found no contractors for your project yet.\n")
		} else {
			b.WriteString("Top contractors for your project:\n")
			for i, m := range cm.Matches {
				if i == maxListedContractors {
					break
				}
				fmt.Fprintf(&b, "%d. %s (match %d/100, available from %s)\n", i+1, m.Name, m.MatchScore, m.AvailableFrom)
			}
		}
		for _, step := range cm.Recommendations.NextSteps {
			fmt.Fprintf(&b, "- %s\n", step)
		}
		b.WriteString("\n")
	}

	if sm := input.SubsidyMatch; sm != nil {
		if len(sm.Combinations) == 0 {
			b.WriteString("No subsidy schemes match your planned measures.\n")
		} else {
			best := sm.Combinations[0]
			names := make([]string, 0, len(best.Schemes))
			for _, s := range best.Schemes {
				names = append(names, s.Name)
			}
			fmt.Fprintf(&b, "Best subsidy option: %s, up to EUR %.0f.\n", strings.Join(names, " + "), best.TotalAmount)
		}
		if u := sm.Recommendations.UrgentScheme; u != nil {
			fmt.Fprintf(&b, "Apply for %s within %d weeks (deadline %s).\n", u.Name, sm.Recommendations.ApplyWithinWeeks, u.Deadline)
		}
	}

	return strings.TrimSpace(b.String())
}

// buildSMS is sent only for urgent subsidy deadlines.
func buildSMS(input *Input) string {
	u := input.SubsidyMatch.Recommendations.UrgentScheme
	return fmt.Sprintf("Subsidy deadline alert: apply for %s before %s.", u.Name, u.Deadline)
}

// topUrgency is the highest scheme urgency in the deadline analysis, or -1.
func topUrgency(input *Input) int {
	if input.SubsidyMatch == nil || input.SubsidyMatch.Recommendations.UrgentScheme == nil {
		return -1
	}
	top := -1
	for _, d := range input.SubsidyMatch.Recommendations.DeadlineAnalysis {
		if d.UrgencyScore > top {
			top = d.UrgencyScore
		}
	}
	return top
}
