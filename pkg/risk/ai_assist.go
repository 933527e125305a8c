package risk

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clearcheck/investigator/pkg/domain"
	"github.com/clearcheck/investigator/pkg/llm"
)

// AISuggestion is the structured classification/severity suggestion an LLM
// returns for a finding the rule tables couldn't resolve confidently
// (spec §4.J.1-2: "AI-assisted only where rules don't match").
type AISuggestion struct {
	Category domain.FindingCategory `json:"category"`
	Severity domain.Severity        `json:"severity"`
}

// Suggest calls client for a classification/severity suggestion on f,
// reusing the teacher's llm.Client interface (pkg/llm.Client) as the
// model-agnostic chat boundary. The suggestion is never trusted outright:
// Classifier.ClassifyWithAISuggestion and SeverityCalculator's rule-first
// ordering both independently re-validate it.
func Suggest(ctx context.Context, client llm.Client, f RawFinding) (AISuggestion, error) {
	resp, err := client.Chat(ctx, []llm.Message{
		{Role: "system", Content: "Classify the background check finding into a category and severity. Respond with JSON: {\"category\": \"...\", \"severity\": \"...\"}."},
		{Role: "user", Content: f.Description},
	}, nil, &llm.SamplingOptions{Temperature: 0})
	if err != nil {
		return AISuggestion{}, fmt.Errorf("risk: ai suggestion: %w", err)
	}

	var suggestion AISuggestion
	if err := json.Unmarshal([]byte(resp.Content), &suggestion); err != nil {
		return AISuggestion{}, fmt.Errorf("risk: ai suggestion: decode response: %w", err)
	}
	return suggestion, nil
}
