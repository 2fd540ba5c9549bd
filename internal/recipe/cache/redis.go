// Package cache keeps the recipe list in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sepehr-khosravi/mazeh-backend/internal/recipe/domain"
)

const keyList = "recipe:list"

// RecipeCache caches the recipe list. A miss is (nil, nil).
type RecipeCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRecipeCache returns a RecipeCache storing entries for ttl.
func NewRecipeCache(rdb redis.Cmdable, ttl time.Duration) *RecipeCache {
	return &RecipeCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list or nil on a miss.
func (c *RecipeCache) GetList(ctx context.Context) ([]domain.Recipe, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Recipe
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the list.
func (c *RecipeCache) SetList(ctx context.Context, list []domain.Recipe) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// Invalidate drops the cached list after a write.
func (c *RecipeCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyList).Err()
}

// Connect parses url, opens a client and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
