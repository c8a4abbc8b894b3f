package consultation

import (
	"context"
	"fmt"

	"miosa/internal/consult"
	llmclient "miosa/internal/llm/client"
	"miosa/internal/util/jsonutil"
)

// Extractor pulls structured business facts out of a single user message.
type Extractor interface {
	Extract(ctx context.Context, message string, known consult.Facts) (consult.Facts, error)
}

const extractionPrompt = `You extract structured business facts from a consultation message.
Return a JSON object using only these keys, omitting any the message does not support:
business_type, industry, team_size, revenue_stage, business_model,
specific_problem, problem_frequency, problem_impact, attempted_solutions,
detailed_workflow, tools_used, people_involved, time_investment,
volume_metrics, financial_impact, growth_trajectory,
must_have_features, constraints, timeline, success_metrics.
Values are strings, numbers, booleans, or arrays of strings. Never invent
facts that are not stated or strongly implied. Known facts are provided for
context; only return keys the new message adds or improves.`

// LLMExtractor implements Extractor on top of an LLM client.
type LLMExtractor struct {
	LLM llmclient.LLMClient
}

func (e *LLMExtractor) Extract(ctx context.Context, message string, known consult.Facts) (consult.Facts, error) {
	input := map[string]any{
		"message":     message,
		"known_facts": known,
	}
	raw, err := e.LLM.GenerateJSON(ctx, extractionPrompt, input)
	if err != nil {
		return nil, fmt.Errorf("extract facts: %w", err)
	}
	var facts consult.Facts
	if err := jsonutil.UnmarshalFlex(raw, &facts); err != nil {
		return nil, fmt.Errorf("extract facts: decode: %w", err)
	}
	for key, v := range facts {
		if v.IsZero() {
			delete(facts, key)
		}
	}
	return facts, nil
}
