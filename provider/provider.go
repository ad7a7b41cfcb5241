package provider

import (
	"context"
	"errors"
	"time"

	openai_provider "github.com/toolhunter/toolhunter/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
	Groq   Client = "groq"
)

// Provider is the interface all LLM implementations must satisfy. model names
// a provider-side model; system and user are the two prompt roles.
type Provider interface {
	Completion(ctx context.Context, model, system, user string, temperature float64) (string, error)
}

// Options carries provider construction settings taken from config.
type Options struct {
	APIKey    string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// NewProvider creates a new LLM client based on the provided configuration.
// A missing API key is not an error here: the key is checked per request so
// the server can start without one (spec keeps provider failures at request
// time).
func NewProvider(client Client, opts Options) (Provider, error) {
	switch client {
	case OpenAI, Groq:
		base := opts.BaseURL
		if base == "" && client == Groq {
			base = openai_provider.GroqBaseURL
		}
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		return openai_provider.NewClient(opts.APIKey, base, opts.MaxTokens, timeout), nil
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
