package consult

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/toolhunter/toolhunter/models"
)

type stubLLM struct {
	reply      string
	err        error
	lastSystem string
}

func (s *stubLLM) Completion(_ context.Context, _, system, _ string, _ float64) (string, error) {
	s.lastSystem = system
	return s.reply, s.err
}

type stubLister struct {
	tools []models.Tool
	err   error
}

func (s stubLister) ListTools(context.Context) ([]models.Tool, error) { return s.tools, s.err }

func TestRecommendEndToEnd(t *testing.T) {
	store := stubLister{tools: []models.Tool{{Title: "PDFSimple", Description: "PDF editing", Tags: []string{"PDF"}}}}
	llm := &stubLLM{reply: `{"tool_name":"PDFSimple","reason":"Handles PDF edits"}`}
	p := New(llm, store, "test-model", nil)

	tool, reason, err := p.Recommend(context.Background(), "edit a PDF")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if tool == nil || tool.Title != "PDFSimple" {
		t.Fatalf("expected PDFSimple, got %+v", tool)
	}
	if reason != "Handles PDF edits" {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestRecommendHallucinatedTitleYieldsNoMatch(t *testing.T) {
	store := stubLister{tools: []models.Tool{{Title: "PDFSimple"}}}
	llm := &stubLLM{reply: `{"tool_name":"MadeUpTool","reason":"sounds great"}`}
	p := New(llm, store, "test-model", nil)

	tool, _, err := p.Recommend(context.Background(), "edit a PDF")
	if err != nil {
		t.Fatalf("Recommend must not fail on unknown titles: %v", err)
	}
	if tool != nil {
		t.Fatalf("expected no recommendation, got %+v", tool)
	}
}

func TestRecommendNoneAnswer(t *testing.T) {
	store := stubLister{tools: []models.Tool{{Title: "PDFSimple"}}}
	llm := &stubLLM{reply: "```json\n{\"tool_name\":\"None\",\"reason\":\"nothing fits\"}\n```"}
	p := New(llm, store, "test-model", nil)

	tool, _, err := p.Recommend(context.Background(), "train a horse")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if tool != nil {
		t.Fatalf("expected no recommendation, got %+v", tool)
	}
}

func TestRecommendUnparseableReplyDegrades(t *testing.T) {
	store := stubLister{tools: []models.Tool{{Title: "PDFSimple"}}}
	llm := &stubLLM{reply: "I recommend PDFSimple, it is great."}
	p := New(llm, store, "test-model", nil)

	tool, reason, err := p.Recommend(context.Background(), "edit a PDF")
	if err != nil {
		t.Fatalf("unparseable reply must degrade to empty, got %v", err)
	}
	if tool != nil || reason != "" {
		t.Fatalf("expected empty outcome, got %+v %q", tool, reason)
	}
}

func TestRecommendEmptyStoreSkipsLLM(t *testing.T) {
	llm := &stubLLM{err: errors.New("must not be called")}
	p := New(llm, stubLister{}, "test-model", nil)

	tool, _, err := p.Recommend(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if tool != nil {
		t.Fatalf("expected no recommendation from empty store, got %+v", tool)
	}
}

func TestRecommendPromptCappedAtFifty(t *testing.T) {
	tools := make([]models.Tool, 60)
	for i := range tools {
		tools[i] = models.Tool{Title: "Tool" + strings.Repeat("X", i%5), Description: "d"}
	}
	tools[59].Title = "LastTool"
	llm := &stubLLM{reply: `{"tool_name":"LastTool","reason":"fits"}`}
	p := New(llm, stubLister{tools: tools}, "test-model", nil)

	tool, _, err := p.Recommend(context.Background(), "q")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if strings.Contains(llm.lastSystem, "LastTool") {
		t.Fatal("prompt must carry only the first 50 candidates")
	}
	// Resolution still happens over the full list.
	if tool == nil || tool.Title != "LastTool" {
		t.Fatalf("resolution must use the uncapped list, got %+v", tool)
	}
}

func TestRecommendStoreFailure(t *testing.T) {
	p := New(&stubLLM{}, stubLister{err: errors.New("db down")}, "test-model", nil)
	if _, _, err := p.Recommend(context.Background(), "q"); err == nil {
		t.Fatal("store failure must surface as an error")
	}
}
