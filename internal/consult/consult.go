// Package consult implements the recommendation pipeline behind POST
// /api/consult: the model picks one stored tool for a free-text need, or
// none.
package consult

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/toolhunter/toolhunter/internal/extract"
	"github.com/toolhunter/toolhunter/models"
	"github.com/toolhunter/toolhunter/provider"
)

// candidateCap bounds how many tools the prompt carries. Truncation, not
// ranking.
const candidateCap = 50

// ToolLister is the slice of the store the pipeline needs.
type ToolLister interface {
	ListTools(ctx context.Context) ([]models.Tool, error)
}

type Pipeline struct {
	llm    provider.Provider
	store  ToolLister
	model  string
	logger *log.Logger
}

func New(llm provider.Provider, store ToolLister, model string, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(log.Writer(), "[CONSULT] ", log.LstdFlags)
	}
	return &Pipeline{llm: llm, store: store, model: model, logger: logger}
}

// Recommend asks the model to pick the single best stored tool for the
// query. A nil tool with no error means no recommendation, which is a normal
// outcome: the store may be empty, the model may answer "None", or it may
// name a tool that does not exist.
func (p *Pipeline) Recommend(ctx context.Context, query string) (*models.Tool, string, error) {
	candidates, err := p.store.ListTools(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list tools: %w", err)
	}
	if len(candidates) == 0 {
		return nil, "", nil
	}

	raw, err := p.llm.Completion(ctx, p.model, consultPrompt(query, candidates), "", 0)
	if err != nil {
		return nil, "", fmt.Errorf("completion: %w", err)
	}

	var choice struct {
		ToolName string `json:"tool_name"`
		Reason   string `json:"reason"`
	}
	if err := extract.Object(raw, &choice); err != nil {
		// Unparseable output degrades to "no recommendation" rather than a
		// request failure.
		p.logger.Printf("unparseable consult reply: %v", err)
		return nil, "", nil
	}

	// Resolve over the full candidate list, not the prompt-capped one.
	for i := range candidates {
		if candidates[i].Title == choice.ToolName {
			return &candidates[i], choice.Reason, nil
		}
	}
	if choice.ToolName != "" && choice.ToolName != "None" {
		p.logger.Printf("model named unknown tool %q", choice.ToolName)
	}
	return nil, "", nil
}

func consultPrompt(query string, candidates []models.Tool) string {
	capped := candidates
	if len(capped) > candidateCap {
		capped = capped[:candidateCap]
	}
	var b strings.Builder
	for _, t := range capped {
		fmt.Fprintf(&b, "- %s: %s (Tags: %s)\n", t.Title, t.Description, strings.Join(t.Tags, ", "))
	}
	return fmt.Sprintf(`You are an expert AI consultant.
User request: %q

Here is the database of tools:
%s
TASK:
1. Analyze the user request.
2. Pick the SINGLE best tool from the list above that solves it.
3. Explain why in 1 short sentence.
4. If no tool fits, use "None" as the tool name.

OUTPUT JSON ONLY:
{
  "tool_name": "Name",
  "reason": "Why it fits..."
}`, query, b.String())
}
