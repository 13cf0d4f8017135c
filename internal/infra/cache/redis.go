// Package cache stores successful AI responses in Redis keyed by request
// fingerprint.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

const keyPrefix = "boardroom:ai:response:"

type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{client: client, ttl: ttl}
}

// Get returns (nil, false, nil) on a miss. fingerprint comes from
// ai.AnalysisRequest.Fingerprint.
func (c *ResponseCache) Get(ctx context.Context, fingerprint string) (*ai.AIResponse, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var resp ai.AIResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &resp, true, nil
}

func (c *ResponseCache) Set(ctx context.Context, fingerprint string, resp *ai.AIResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+fingerprint, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *ResponseCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
