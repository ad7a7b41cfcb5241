// Package analytics sends best-effort product events to a PostHog-compatible
// capture endpoint. Events are fire-and-forget: failures are logged and
// never affect the request that produced them.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type Client struct {
	apiKey     string
	host       string
	httpClient *http.Client
	logger     *log.Logger
}

// New returns a client, or a no-op one when apiKey is empty.
func New(apiKey, host string, logger *log.Logger) *Client {
	if host == "" {
		host = "https://app.posthog.com"
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[ANALYTICS] ", log.LstdFlags)
	}
	return &Client{
		apiKey:     apiKey,
		host:       host,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     logger,
	}
}

// Capture sends one event in a background goroutine and returns immediately.
func (c *Client) Capture(event, distinctID string, properties map[string]any) {
	if c == nil || c.apiKey == "" {
		return
	}
	payload := map[string]any{
		"api_key":     c.apiKey,
		"event":       event,
		"distinct_id": distinctID,
		"properties":  properties,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Printf("marshal %s: %v", event, err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, "POST", c.host+"/capture/", bytes.NewReader(body))
		if err != nil {
			c.logger.Printf("capture %s: %v", event, err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Printf("capture %s: %v", event, err)
			return
		}
		resp.Body.Close()
	}()
}
