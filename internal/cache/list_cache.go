package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "tagdo/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyTodoList = "todo:list:" // + canonical filter key
	keyTagList  = "tag:list"
)

// ListCache caches filtered todo lists and the tag usage list in Redis.
// Every write path invalidates everything; entries also expire by TTL.
type ListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewListCache returns a new ListCache. A nil client disables caching:
// the services treat a nil ListCache as a permanent miss.
func NewListCache(rdb *redis.Client, ttl time.Duration) *ListCache {
	if rdb == nil {
		return nil
	}
	return &ListCache{rdb: rdb, ttl: ttl}
}

// GetTodos returns the cached list for the filter key, or nil on miss.
func (c *ListCache) GetTodos(ctx context.Context, filterKey string) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, keyTodoList+filterKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Todo
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetTodos stores the list for the filter key.
func (c *ListCache) SetTodos(ctx context.Context, filterKey string, list []dom.Todo) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyTodoList+filterKey, b, c.ttl).Err()
}

// GetTags returns the cached tag list with counts, or nil on miss.
func (c *ListCache) GetTags(ctx context.Context) ([]dom.TagCount, error) {
	b, err := c.rdb.Get(ctx, keyTagList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.TagCount
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetTags stores the tag list.
func (c *ListCache) SetTags(ctx context.Context, list []dom.TagCount) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyTagList, b, c.ttl).Err()
}

// InvalidateAll removes the tag list and every todo list entry (cache
// invalidation on write).
func (c *ListCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Del(ctx, keyTagList).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keyTodoList+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
