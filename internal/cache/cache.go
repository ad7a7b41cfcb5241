// Package cache keeps a short-lived Redis copy of the tool list so the list
// endpoint does not hit Postgres on every page load. The 60-second TTL
// mirrors the directory's freshness window.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/toolhunter/toolhunter/models"
)

const toolListKey = "toolhunter:tools"

// DefaultTTL is used when config supplies none.
const DefaultTTL = 60 * time.Second

type ToolList struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// Conn opens and verifies a Redis connection.
func Conn(ctx context.Context, host, port, pass string, db int, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", host, port),
		DialTimeout: timeout,
		Password:    pass,
		DB:          db,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	if pong != "PONG" {
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

// NewToolList wraps client. A nil client yields a no-op cache so callers
// never have to branch on whether Redis is configured.
func NewToolList(client *redis.Client, ttl time.Duration, logger *log.Logger) *ToolList {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[CACHE] ", log.LstdFlags)
	}
	return &ToolList{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached list and whether it was present.
func (c *ToolList) Get(ctx context.Context) ([]models.Tool, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, toolListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Printf("get: %v", err)
		}
		return nil, false
	}
	var tools []models.Tool
	if err := json.Unmarshal(data, &tools); err != nil {
		c.logger.Printf("corrupt cache entry dropped: %v", err)
		_ = c.client.Del(ctx, toolListKey).Err()
		return nil, false
	}
	return tools, true
}

// Set stores the list for the configured TTL. Failures are logged, not
// returned; the cache is best-effort.
func (c *ToolList) Set(ctx context.Context, tools []models.Tool) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(tools)
	if err != nil {
		c.logger.Printf("marshal: %v", err)
		return
	}
	if err := c.client.Set(ctx, toolListKey, data, c.ttl).Err(); err != nil {
		c.logger.Printf("set: %v", err)
	}
}

// Invalidate drops the cached list. Called after hunts persist new rows and
// after counted votes.
func (c *ToolList) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, toolListKey).Err(); err != nil {
		c.logger.Printf("invalidate: %v", err)
	}
}
