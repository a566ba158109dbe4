package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/wellnessmate/backend/internal/types"
)

// DefaultCacheTTL is how long a recipe detail response stays cached
const DefaultCacheTTL = 10 * time.Minute

// RecipeCache stores recipe detail responses in Redis. A nil cache, or one
// without a client, never hits and silently drops writes.
type RecipeCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRecipeCache creates a cache on top of the given client
func NewRecipeCache(client *redis.Client, ttl time.Duration) *RecipeCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RecipeCache{redis: client, ttl: ttl}
}

func detailKey(id uuid.UUID) string {
	return "recipe:detail:" + id.String()
}

// Get returns the cached detail, or nil on a miss
func (c *RecipeCache) Get(ctx context.Context, id uuid.UUID) (*types.RecipeDetail, error) {
	if c == nil || c.redis == nil {
		return nil, nil
	}

	data, err := c.redis.Get(ctx, detailKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var detail types.RecipeDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return &detail, nil
}

// Set caches a detail response
func (c *RecipeCache) Set(ctx context.Context, id uuid.UUID, detail *types.RecipeDetail) error {
	if c == nil || c.redis == nil {
		return nil
	}

	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, detailKey(id), data, c.ttl).Err()
}

// Invalidate drops a cached detail response
func (c *RecipeCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, detailKey(id)).Err()
}
