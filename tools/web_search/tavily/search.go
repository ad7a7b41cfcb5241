package tavily

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/toolhunter/toolhunter/tools/web_search/models"
	"github.com/toolhunter/toolhunter/utils"
)

type Search struct {
	ApiKey string
}

func (s Search) Discover(ctx context.Context, q string, k int, exclude []string) ([]models.Result, error) {
	// https://docs.tavily.com/docs/rest-api
	payload := map[string]any{
		"api_key":      s.ApiKey,
		"query":        q,
		"search_depth": "advanced",
		"max_results":  k,
	}
	if len(exclude) > 0 {
		payload["exclude_domains"] = exclude
	}

	body, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.tavily.com/search", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily returned status %d", resp.StatusCode)
	}
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Result
	if items, ok := raw["results"].([]any); ok {
		for i, it := range items {
			if i >= k {
				break
			}
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, models.Result{
				Title: utils.Str(m["title"]), URL: utils.Str(m["url"]), Snippet: utils.Str(m["content"]),
			})
		}
	}
	return out, nil
}
