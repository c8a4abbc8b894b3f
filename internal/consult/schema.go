package consult

// FieldRule describes how one extracted field is scored. At most one of the
// quality checks fires per evaluation; they are tried in declaration order.
type FieldRule struct {
	Points          float64
	AntiVagueTerms  []string
	MinLength       int
	RequiresNumbers bool
	ListPreferred   bool
	MinItems        int
	QualityBonus    bool
}

// InformationCategory groups field rules under a shared weight. A category
// can never contribute more than Weight*100 points to the total.
type InformationCategory struct {
	Name   string
	Weight float64
	Fields map[string]FieldRule
}

// InformationSchema is the ordered set of categories the scorer walks.
// Order matters only for deterministic breakdown output.
var InformationSchema = []InformationCategory{
	{
		Name:   "business_context",
		Weight: 0.15,
		Fields: map[string]FieldRule{
			"business_type":  {Points: 3, QualityBonus: true},
			"industry":       {Points: 3, QualityBonus: true},
			"team_size":      {Points: 2},
			"revenue_stage":  {Points: 3},
			"business_model": {Points: 4, QualityBonus: true},
		},
	},
	{
		Name:   "problem_discovery",
		Weight: 0.25,
		Fields: map[string]FieldRule{
			"specific_problem":    {Points: 15, AntiVagueTerms: []string{"automate", "improve", "fix", "help"}},
			"problem_frequency":   {Points: 5},
			"problem_impact":      {Points: 5},
			"attempted_solutions": {Points: 3, ListPreferred: true, MinItems: 1},
		},
	},
	{
		Name:   "current_process",
		Weight: 0.20,
		Fields: map[string]FieldRule{
			"detailed_workflow": {Points: 15, MinLength: 50},
			"tools_used":        {Points: 3, ListPreferred: true, MinItems: 1},
			"people_involved":   {Points: 2},
			"time_investment":   {Points: 5, RequiresNumbers: true},
		},
	},
	{
		Name:   "scale_impact",
		Weight: 0.20,
		Fields: map[string]FieldRule{
			"volume_metrics":    {Points: 8, RequiresNumbers: true},
			"financial_impact":  {Points: 8, RequiresNumbers: true},
			"growth_trajectory": {Points: 4},
		},
	},
	{
		Name:   "solution_requirements",
		Weight: 0.20,
		Fields: map[string]FieldRule{
			"must_have_features": {Points: 10, ListPreferred: true, MinItems: 3},
			"constraints":        {Points: 5},
			"timeline":           {Points: 3},
			"success_metrics":    {Points: 2},
		},
	},
}
