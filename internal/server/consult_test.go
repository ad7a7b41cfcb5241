package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/toolhunter/toolhunter/models"
)

type stubRecommender struct {
	tool   *models.Tool
	reason string
	err    error
}

func (s stubRecommender) Recommend(context.Context, string) (*models.Tool, string, error) {
	return s.tool, s.reason, s.err
}

func TestConsultHandlerRecommendation(t *testing.T) {
	h := &ConsultHandler{Pipeline: stubRecommender{
		tool:   &models.Tool{Title: "PDFSimple", Tags: []string{"PDF"}},
		reason: "Handles PDF edits",
	}}
	rec := postJSON(t, h.consult, "/api/consult", `{"query":"edit a PDF"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Success        bool         `json:"success"`
		Recommendation *models.Tool `json:"recommendation"`
		Reason         string       `json:"reason"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.Recommendation == nil || resp.Recommendation.Title != "PDFSimple" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
	if resp.Reason != "Handles PDF edits" {
		t.Fatalf("unexpected reason %q", resp.Reason)
	}
}

func TestConsultHandlerNoMatchIsSuccess(t *testing.T) {
	h := &ConsultHandler{Pipeline: stubRecommender{}}
	rec := postJSON(t, h.consult, "/api/consult", `{"query":"train a horse"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("no match must be success:true, got %s", rec.Body.String())
	}
	if _, present := resp["recommendation"]; present {
		t.Fatalf("recommendation must be absent, got %s", rec.Body.String())
	}
}

func TestConsultHandlerPipelineFailure(t *testing.T) {
	h := &ConsultHandler{Pipeline: stubRecommender{err: errors.New("llm down")}}
	rec := postJSON(t, h.consult, "/api/consult", `{"query":"pdf"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestConsultHandlerRejectsEmptyQuery(t *testing.T) {
	h := &ConsultHandler{Pipeline: stubRecommender{}}
	rec := postJSON(t, h.consult, "/api/consult", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
