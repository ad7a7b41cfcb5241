package hunt

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/toolhunter/toolhunter/internal/extract"
	"github.com/toolhunter/toolhunter/models"
	searchmodels "github.com/toolhunter/toolhunter/tools/web_search/models"
)

type stubSearcher struct {
	results []searchmodels.Result
	err     error
}

func (s stubSearcher) Discover(_ context.Context, _ string, _ int, _ []string) ([]searchmodels.Result, error) {
	return s.results, s.err
}

type stubLLM struct {
	reply string
	err   error
}

func (s stubLLM) Completion(_ context.Context, _, _, _ string, _ float64) (string, error) {
	return s.reply, s.err
}

// fakeStore is an in-memory link-keyed store with the same convergence
// guarantee as the Postgres upsert.
type fakeStore struct {
	mu    sync.Mutex
	byID  map[int64]models.Tool
	byKey map[string]int64
	next  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[int64]models.Tool{}, byKey: map[string]int64{}}
}

func (f *fakeStore) UpsertToolByLink(_ context.Context, t models.Tool) (models.Tool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.Link != "" {
		if id, ok := f.byKey[t.Link]; ok {
			return f.byID[id], nil
		}
	}
	f.next++
	t.ID = f.next
	f.byID[t.ID] = t
	if t.Link != "" {
		f.byKey[t.Link] = t.ID
	}
	return t, nil
}

func (f *fakeStore) rows() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func someResults() []searchmodels.Result {
	return []searchmodels.Result{
		{Title: "PDFSimple — edit PDFs", URL: "https://pdfsimple.com", Snippet: "Edit PDFs in the browser"},
	}
}

func TestHuntPersistsExtractedTools(t *testing.T) {
	st := newFakeStore()
	p := New(stubSearcher{results: someResults()}, stubLLM{reply: `[
        {"title":"PDFSimple","description":"Edit PDFs","link":"https://pdfsimple.com","tags":["PDF"],"utility_score":92,"pricing":"Freemium"}
    ]`}, st, "test-model", 0, nil)

	tools, err := p.Hunt(context.Background(), "edit a PDF")
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}
	if tools[0].ID == 0 {
		t.Fatal("persisted tool must carry the store-assigned id")
	}
	if tools[0].Slug != "pdfsimple" {
		t.Fatalf("expected derived slug, got %q", tools[0].Slug)
	}
}

func TestHuntRecoversFencedArray(t *testing.T) {
	st := newFakeStore()
	p := New(stubSearcher{results: someResults()}, stubLLM{
		reply: "Sure! Here you go:\n```json\n[{\"title\":\"DocForge\",\"link\":\"https://docforge.ai\"}]\n```",
	}, st, "test-model", 0, nil)

	tools, err := p.Hunt(context.Background(), "pdf")
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if len(tools) != 1 || tools[0].Title != "DocForge" {
		t.Fatalf("expected DocForge recovered from fenced block, got %+v", tools)
	}
}

func TestHuntMalformedOutputFailsClosed(t *testing.T) {
	st := newFakeStore()
	p := New(stubSearcher{results: someResults()}, stubLLM{reply: "I found nothing useful."}, st, "test-model", 0, nil)

	_, err := p.Hunt(context.Background(), "pdf")
	if !errors.Is(err, extract.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
	if st.rows() != 0 {
		t.Fatal("nothing may be persisted when parsing fails")
	}
}

func TestPostProcessSocialLinkMovesToTutorial(t *testing.T) {
	got, ok := postProcess(models.Tool{Title: "X", Link: "https://facebook.com/x"})
	if !ok {
		t.Fatal("candidate must survive post-processing")
	}
	if got.Link != "" {
		t.Fatalf("link must be blanked, got %q", got.Link)
	}
	if got.TutorialLink != "https://facebook.com/x" {
		t.Fatalf("tutorial_link must take the social URL, got %q", got.TutorialLink)
	}
}

func TestPostProcessKeepsExistingTutorialLink(t *testing.T) {
	got, _ := postProcess(models.Tool{Title: "X", Link: "https://facebook.com/x", TutorialLink: "https://docs.x.ai"})
	if got.TutorialLink != "https://docs.x.ai" {
		t.Fatalf("existing tutorial_link must be kept, got %q", got.TutorialLink)
	}
	if got.Link != "" {
		t.Fatalf("social link must still be blanked, got %q", got.Link)
	}
}

func TestPostProcessDropsUntitledAndPlaceholders(t *testing.T) {
	if _, ok := postProcess(models.Tool{Title: "  ", Link: "https://real.ai"}); ok {
		t.Fatal("untitled candidate must be dropped")
	}
	if _, ok := postProcess(models.Tool{Title: "Fake", Link: "https://example.com/tool"}); ok {
		t.Fatal("placeholder-domain candidate must be dropped")
	}
}

func TestHuntConcurrentSameLinkDoesNotDuplicate(t *testing.T) {
	st := newFakeStore()
	reply := `[{"title":"PDFSimple","link":"https://pdfsimple.com"}]`

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := New(stubSearcher{results: someResults()}, stubLLM{reply: reply}, st, "test-model", 0, nil)
			if _, err := p.Hunt(context.Background(), "pdf"); err != nil {
				t.Errorf("Hunt: %v", err)
			}
		}()
	}
	wg.Wait()

	if st.rows() != 1 {
		t.Fatalf("link-keyed upsert must converge on 1 row, got %d", st.rows())
	}
}

func TestHuntSearchFailure(t *testing.T) {
	p := New(stubSearcher{err: errors.New("boom")}, stubLLM{}, newFakeStore(), "test-model", 0, nil)
	if _, err := p.Hunt(context.Background(), "pdf"); err == nil {
		t.Fatal("search failure must surface as an error")
	}
}

func TestHuntNoResultsIsEmptyNotError(t *testing.T) {
	p := New(stubSearcher{}, stubLLM{}, newFakeStore(), "test-model", 0, nil)
	tools, err := p.Hunt(context.Background(), "pdf")
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if len(tools) != 0 {
		t.Fatalf("expected empty result, got %+v", tools)
	}
}
