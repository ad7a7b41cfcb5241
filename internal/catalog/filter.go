// Package catalog holds the pure, request-local list operations the tool
// directory exposes: text/category filtering and merge of freshly hunted
// records into an existing list.
package catalog

import (
	"strings"

	"github.com/toolhunter/toolhunter/models"
)

// CategoryAll disables category filtering.
const CategoryAll = "All"

// Filter returns the tools matching both the free-text query and the
// category. The text match is a case-insensitive substring test over title,
// description and tags; the category matches when any tag contains it. The
// two filters are ANDed. Empty query and empty/"All" category each match
// everything.
func Filter(tools []models.Tool, query, category string) []models.Tool {
	q := strings.ToLower(query)
	out := make([]models.Tool, 0, len(tools))
	for _, t := range tools {
		if q != "" && !matchesText(t, q) {
			continue
		}
		if category != "" && category != CategoryAll && !matchesCategory(t, category) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesText(t models.Tool, q string) bool {
	if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func matchesCategory(t models.Tool, category string) bool {
	for _, tag := range t.Tags {
		if strings.Contains(tag, category) {
			return true
		}
	}
	return false
}

// MergeByTitle prepends fresh tools to existing and removes duplicates by
// exact title equality, keeping the first occurrence. Fresh results therefore
// win over stored rows with the same title.
func MergeByTitle(fresh, existing []models.Tool) []models.Tool {
	seen := make(map[string]struct{}, len(fresh)+len(existing))
	out := make([]models.Tool, 0, len(fresh)+len(existing))
	for _, t := range append(append([]models.Tool{}, fresh...), existing...) {
		if _, ok := seen[t.Title]; ok {
			continue
		}
		seen[t.Title] = struct{}{}
		out = append(out, t)
	}
	return out
}
