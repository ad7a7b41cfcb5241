// Package hunt implements the extraction pipeline behind POST /api/hunt:
// one web search, one LLM completion, JSON recovery, post-processing and
// link-keyed persistence.
package hunt

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/toolhunter/toolhunter/internal/catalog"
	"github.com/toolhunter/toolhunter/internal/extract"
	"github.com/toolhunter/toolhunter/internal/helpers"
	"github.com/toolhunter/toolhunter/models"
	"github.com/toolhunter/toolhunter/provider"
	"github.com/toolhunter/toolhunter/tools/web_search"
	"github.com/toolhunter/toolhunter/utils"
)

// SocialDomains are excluded from search results and scrubbed from extracted
// links during post-processing.
var SocialDomains = []string{
	"linkedin.com", "instagram.com", "facebook.com",
	"twitter.com", "x.com", "tiktok.com", "youtube.com",
}

// placeholderDomains mark candidates the model invented rather than found.
var placeholderDomains = []string{"example.com", "google.com"}

const (
	// snippetBudget caps each search snippet fed to the model. Fixed cutoff,
	// not content-aware.
	snippetBudget  = 300
	defaultResults = 7
)

// ToolStore is the slice of the store the pipeline needs.
type ToolStore interface {
	UpsertToolByLink(ctx context.Context, t models.Tool) (models.Tool, error)
}

type Pipeline struct {
	searcher   web_search.WebSearcher
	llm        provider.Provider
	store      ToolStore
	model      string
	maxResults int
	logger     *log.Logger
}

func New(searcher web_search.WebSearcher, llm provider.Provider, store ToolStore, model string, maxResults int, logger *log.Logger) *Pipeline {
	if maxResults <= 0 {
		maxResults = defaultResults
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[HUNT] ", log.LstdFlags)
	}
	return &Pipeline{searcher: searcher, llm: llm, store: store, model: model, maxResults: maxResults, logger: logger}
}

// Hunt turns a user query into zero or more persisted tool records. Provider
// and parse failures are returned to the caller; an empty result is not an
// error.
func (p *Pipeline) Hunt(ctx context.Context, query string) ([]models.Tool, error) {
	searchQuery := fmt.Sprintf("best %s ai tool software pricing features official site", query)
	results, err := p.searcher.Discover(ctx, searchQuery, p.maxResults, SocialDomains)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}
	if len(results) == 0 {
		p.logger.Printf("no search results for %q", query)
		return nil, nil
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "SOURCE: %s\nTITLE: %s\nTEXT: %s\n\n", r.URL, r.Title, utils.Truncate(r.Snippet, snippetBudget))
	}

	raw, err := p.llm.Completion(ctx, p.model, extractionPrompt(query), b.String(), 0.1)
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}

	var candidates []models.Tool
	if err := extract.Array(raw, &candidates); err != nil {
		return nil, err
	}

	var out []models.Tool
	for _, c := range candidates {
		tool, ok := postProcess(c)
		if !ok {
			continue
		}
		stored, err := p.store.UpsertToolByLink(ctx, tool)
		if err != nil {
			return nil, fmt.Errorf("persist %q: %w", tool.Title, err)
		}
		out = append(out, stored)
	}
	out = catalog.MergeByTitle(out, nil)
	p.logger.Printf("hunt %q: %d candidates, %d persisted", query, len(candidates), len(out))
	return out, nil
}

// postProcess normalises one model candidate. Social links move to
// tutorial_link (when that is empty) and the link is blanked; placeholder
// domains and untitled candidates are dropped entirely.
func postProcess(t models.Tool) (models.Tool, bool) {
	if strings.TrimSpace(t.Title) == "" {
		return models.Tool{}, false
	}
	t.Title = strings.TrimSpace(t.Title)

	if t.Link != "" {
		for _, d := range placeholderDomains {
			if helpers.MatchesDomain(t.Link, d) {
				return models.Tool{}, false
			}
		}
		if social(t.Link) {
			if t.TutorialLink == "" {
				t.TutorialLink = t.Link
			}
			t.Link = ""
		}
	}
	if t.Link != "" {
		if canonical, err := helpers.CanonicalLink(t.Link); err == nil {
			t.Link = canonical
		}
	}
	if len(t.Pros) > 3 {
		t.Pros = t.Pros[:3]
	}
	t.Slug = helpers.Slugify(t.Title)
	return t, true
}

func social(link string) bool {
	for _, d := range SocialDomains {
		if helpers.MatchesDomain(link, d) {
			return true
		}
	}
	return false
}

func extractionPrompt(query string) string {
	return fmt.Sprintf(`You are an elite venture-capital analyst evaluating AI tools.
The user is hunting for: %q.

Analyze the search results and extract the top 3 high-quality tools.

STRICT RULES:
1. Ignore "Top 10" lists, blogs and newsletters. Only product landing pages qualify.
2. 'link' must be the official homepage (e.g. .com, .ai, .io). Never a social-media URL.
3. 'pricing' must be one of "Free", "Freemium", "Paid", or a literal price such as "$10/mo".
4. 'pros' must be at most 3 short features (max 4 words each).
5. 'utility_score' is an integer 0-100.

OUTPUT a JSON array ONLY, no markdown, no prose:
[
  {
    "title": "Tool Name",
    "description": "One sentence value prop.",
    "link": "https://official-site.com",
    "tutorial_link": "https://docs.official-site.com",
    "tags": [%q, "Generative AI", "Productivity"],
    "utility_score": 95,
    "pricing": "Freemium",
    "pros": ["Real-time Sync", "No-code Builder"]
  }
]`, query, query)
}
