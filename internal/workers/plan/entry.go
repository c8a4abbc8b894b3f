package plan

import (
	"strings"

	"miosa/internal/consult"
)

var vagueTerms = []string{"automate", "improve", "fix", "help"}

// CanStart evaluates the entry condition for a planning run: the fact map
// must contain a non-vague problem statement, a current-process description,
// and at least one impact or scale signal. All three are required.
func CanStart(facts consult.Facts) bool {
	problem := strings.ToLower(facts.Get("specific_problem"))
	if problem == "" {
		return false
	}
	for _, term := range vagueTerms {
		if strings.Contains(problem, term) {
			return false
		}
	}

	if !facts.Has("detailed_workflow", "current_process", "time_investment") {
		return false
	}

	return facts.Has("volume_metrics", "financial_impact", "growth_trajectory", "team_size")
}
