package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

const (
	catalogTTL     = 5 * time.Minute
	pageKeyPrefix  = "catalog:page:"
	countKey       = "catalog:count"
	trackedKeysSet = "catalog:keys"
)

var ctx = context.Background()

// CatalogCache is a best-effort cache-aside layer over catalog listing
// and count. Every cached key is tracked in a Redis set so a product
// mutation can invalidate all of them at once. A nil CatalogCache (or a
// nil underlying client) disables caching entirely; every method is
// nil-safe.
type CatalogCache struct {
	redis *RedisClient
}

func NewCatalogCache(client *RedisClient) *CatalogCache {
	return &CatalogCache{redis: client}
}

func (c *CatalogCache) enabled() bool {
	return c != nil && c.redis != nil && c.redis.client != nil
}

func (c *CatalogCache) GetPage(page int) ([]domain.Product, bool) {
	if !c.enabled() {
		return nil, false
	}

	key := pageKeyPrefix + strconv.Itoa(page)
	payload, err := c.redis.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.redis.log.Warnf("Cache: failed to read %s: %v", key, err)
		}
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal([]byte(payload), &products); err != nil {
		c.redis.log.Warnf("Cache: invalid payload under %s, dropping: %v", key, err)
		c.redis.client.Del(ctx, key)
		return nil, false
	}
	return products, true
}

func (c *CatalogCache) SetPage(page int, products []domain.Product) {
	if !c.enabled() {
		return
	}

	payload, err := json.Marshal(products)
	if err != nil {
		c.redis.log.Warnf("Cache: failed to marshal page %d: %v", page, err)
		return
	}

	key := pageKeyPrefix + strconv.Itoa(page)
	pipe := c.redis.client.Pipeline()
	pipe.Set(ctx, key, payload, catalogTTL)
	pipe.SAdd(ctx, trackedKeysSet, key)
	if _, err := pipe.Exec(ctx); err != nil {
		c.redis.log.Warnf("Cache: failed to store page %d: %v", page, err)
	}
}

func (c *CatalogCache) GetCount() (int, bool) {
	if !c.enabled() {
		return 0, false
	}

	payload, err := c.redis.client.Get(ctx, countKey).Result()
	if err != nil {
		if err != redis.Nil {
			c.redis.log.Warnf("Cache: failed to read %s: %v", countKey, err)
		}
		return 0, false
	}

	count, err := strconv.Atoi(payload)
	if err != nil {
		c.redis.client.Del(ctx, countKey)
		return 0, false
	}
	return count, true
}

func (c *CatalogCache) SetCount(count int) {
	if !c.enabled() {
		return
	}

	pipe := c.redis.client.Pipeline()
	pipe.Set(ctx, countKey, strconv.Itoa(count), catalogTTL)
	pipe.SAdd(ctx, trackedKeysSet, countKey)
	if _, err := pipe.Exec(ctx); err != nil {
		c.redis.log.Warnf("Cache: failed to store count: %v", err)
	}
}

// Invalidate drops every tracked catalog key. Called after any product
// mutation so advertised counts stay consistent with page contents.
func (c *CatalogCache) Invalidate() error {
	if !c.enabled() {
		return nil
	}

	keys, err := c.redis.client.SMembers(ctx, trackedKeysSet).Result()
	if err != nil {
		return fmt.Errorf("failed to list tracked catalog keys: %w", err)
	}

	keys = append(keys, trackedKeysSet)
	if err := c.redis.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}

	c.redis.log.Infof("Cache: invalidated %d catalog keys", len(keys)-1)
	return nil
}
