package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"miosa/internal/consult"
	llmclient "miosa/internal/llm/client"
	"miosa/internal/runner"
)

// In carries everything a planning run derives its output from.
type In struct {
	SessionID string          `json:"session_id"`
	Facts     consult.Facts   `json:"facts"`
	Profile   consult.Profile `json:"profile"`
}

// Document is the finished plan: one JSON fragment per planning step.
type Document struct {
	Requirements json.RawMessage `json:"requirements"`
	Integrations json.RawMessage `json:"integrations"`
	Database     json.RawMessage `json:"database"`
	Backend      json.RawMessage `json:"backend"`
	Frontend     json.RawMessage `json:"frontend"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// StatusSink persists a status transition. Implementations must tolerate
// being called from the planner goroutine while the foreground turn handler
// reads the same record.
type StatusSink func(ctx context.Context, rec StatusRecord) error

// Planner runs the sequential planning steps for one session. A Planner is
// stateless; every run gets its inputs through Run.
type Planner struct {
	LLM llmclient.LLMClient
	Now func() time.Time
}

func (p *Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

type step struct {
	name     string
	status   Status
	progress int
	prompt   string
}

var steps = []step{
	{"requirements", StatusAnalyzing, 15, promptRequirements},
	{"integrations", StatusPlanningArchitecture, 30, promptIntegrations},
	{"database", StatusPlanningArchitecture, 50, promptDatabase},
	{"backend", StatusPlanningArchitecture, 70, promptBackend},
	{"frontend", StatusPlanningArchitecture, 85, promptFrontend},
}

// Run executes the full planning sequence. Every step failure is recorded
// through sink as an error status and returned; Run never panics across the
// task boundary.
func (p *Planner) Run(ctx context.Context, in In, sink StatusSink) (Document, error) {
	emitter := runner.EmitterFrom(ctx)

	doc := Document{}
	if err := p.setStatus(ctx, sink, StatusPlanning, 5, ""); err != nil {
		return doc, err
	}
	emitter.EmitStatus(string(StatusPlanning), 5)

	stepInput := map[string]any{
		"session_id": in.SessionID,
		"facts":      in.Facts,
		"profile":    in.Profile,
	}

	for _, s := range steps {
		raw, err := p.LLM.GenerateJSON(ctx, s.prompt, stepInput)
		if err != nil {
			wrapped := fmt.Errorf("plan: %s step: %w", s.name, err)
			if serr := p.setStatus(ctx, sink, StatusError, 0, wrapped.Error()); serr != nil {
				return doc, serr
			}
			emitter.Emit(runner.RunEvent{Type: runner.EventTypeError, Message: wrapped.Error()})
			return doc, wrapped
		}

		switch s.name {
		case "requirements":
			doc.Requirements = raw
		case "integrations":
			doc.Integrations = raw
		case "database":
			doc.Database = raw
		case "backend":
			doc.Backend = raw
		case "frontend":
			doc.Frontend = raw
		}
		stepInput[s.name] = raw

		if err := p.setStatus(ctx, sink, s.status, s.progress, ""); err != nil {
			return doc, err
		}
		emitter.EmitStatus(string(s.status), int32(s.progress))
	}

	doc.GeneratedAt = p.now()
	if err := p.setStatus(ctx, sink, StatusReady, 100, ""); err != nil {
		return doc, err
	}
	emitter.Emit(runner.RunEvent{Type: runner.EventTypeComplete, Status: string(StatusReady), Progress: 100})
	return doc, nil
}

func (p *Planner) setStatus(ctx context.Context, sink StatusSink, s Status, progress int, errMsg string) error {
	if sink == nil {
		return nil
	}
	return sink(ctx, StatusRecord{
		Status:     s,
		Progress:   progress,
		Error:      errMsg,
		LastUpdate: p.now(),
	})
}

const promptRequirements = `You are a software consultant deriving build requirements.
From the business facts and profile, produce JSON with:
"functional" (list of concrete functional requirements),
"non_functional" (list),
"out_of_scope" (list).
Base every requirement on a stated fact; do not invent workload numbers.
JSON only.`

const promptIntegrations = `You are identifying external integrations for a custom system.
From the facts, profile and requirements, produce JSON with:
"integrations" (list of {"name", "purpose", "direction"}).
Only include tools the user actually mentioned or their obvious replacements.
JSON only.`

const promptDatabase = `You are designing the data layer for a custom system.
From the facts and previous steps, produce JSON with:
"entities" (list of {"name", "fields", "relations"}),
"notes" (list).
JSON only.`

const promptBackend = `You are planning the backend of a custom system.
From the facts and previous steps, produce JSON with:
"services" (list of {"name", "responsibility", "endpoints"}),
"background_jobs" (list).
JSON only.`

const promptFrontend = `You are planning the frontend of a custom system.
From the facts and previous steps, produce JSON with:
"views" (list of {"name", "purpose", "primary_actions"}),
"navigation" (list).
JSON only.`
