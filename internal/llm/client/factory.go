package llmclient

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// NewFromEnv builds the provider named by LLM_PROVIDER (groq or gemini,
// default groq). Model selection follows LLM_MODEL when set.
func NewFromEnv(ctx context.Context) (LLMClient, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	model := strings.TrimSpace(os.Getenv("LLM_MODEL"))

	switch provider {
	case "", "groq":
		return NewGroqClient("", model)
	case "gemini":
		return NewGeminiClient(ctx, model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}
