package web_search

import (
	"context"
	"errors"

	"github.com/toolhunter/toolhunter/tools/web_search/brave"
	"github.com/toolhunter/toolhunter/tools/web_search/models"
	"github.com/toolhunter/toolhunter/tools/web_search/serper"
	"github.com/toolhunter/toolhunter/tools/web_search/tavily"
)

// WebSearcher finds ranked web pages for a free-text query. exclude lists
// domains whose results the provider should drop.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int, exclude []string) ([]models.Result, error)
}

type Provider string

const (
	TavilyProvider Provider = "tavily"
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

func NewWebSearcher(provider Provider, apiKey string) (WebSearcher, error) {
	switch provider {
	case TavilyProvider:
		return tavily.Search{ApiKey: apiKey}, nil
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: apiKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
