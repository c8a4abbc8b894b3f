package consultation

import (
	"strings"

	"miosa/internal/consult"
)

// Solution is the concrete build recommendation surfaced once a consultation
// has gathered enough information.
type Solution struct {
	Name     string   `json:"name"`
	Stack    string   `json:"stack"`
	Features []string `json:"features"`
}

var solutionMap = map[string]Solution{
	"support": {
		Name:     "Customer Service Platform",
		Stack:    "FastAPI + React + PostgreSQL",
		Features: []string{"Ticket Management", "Auto-Routing", "AI Responses", "Analytics"},
	},
	"sales": {
		Name:     "Sales Automation System",
		Stack:    "Django + Vue.js + PostgreSQL",
		Features: []string{"Lead Scoring", "Pipeline Tracking", "Email Sequences", "Forecasting"},
	},
	"operations": {
		Name:     "Operations Dashboard",
		Stack:    "FastAPI + React + TimescaleDB",
		Features: []string{"Real-Time Metrics", "Alerting", "Resource Planning", "Reporting"},
	},
	"data": {
		Name:     "Analytics Platform",
		Stack:    "FastAPI + React + PostgreSQL + Redis",
		Features: []string{"Custom Dashboards", "Scheduled Reports", "Data Pipelines", "Export Tools"},
	},
	"process": {
		Name:     "Workflow Automation System",
		Stack:    "FastAPI + React + PostgreSQL",
		Features: []string{"Process Builder", "Task Automation", "Integrations", "Audit Trail"},
	},
}

var problemAreas = map[string][]string{
	"support":    {"support", "ticket", "customer service", "complaint", "helpdesk"},
	"sales":      {"sales", "lead", "crm", "pipeline", "deal"},
	"operations": {"operations", "inventory", "scheduling", "logistics", "fulfillment"},
	"data":       {"report", "analytics", "data", "metric", "dashboard"},
}

// recommendSolution maps the gathered problem description onto one of the
// known solution shapes, defaulting to workflow automation.
func recommendSolution(facts consult.Facts, profile *consult.Profile) Solution {
	text := strings.ToLower(facts.Get("specific_problem") + " " + facts.Get("detailed_workflow"))
	if profile != nil {
		text += " " + strings.ToLower(strings.Join(profile.ProblemPatterns, " "))
	}
	for _, area := range []string{"support", "sales", "operations", "data"} {
		for _, kw := range problemAreas[area] {
			if strings.Contains(text, kw) {
				return solutionMap[area]
			}
		}
	}
	return solutionMap["process"]
}
