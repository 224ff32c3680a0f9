package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RedisClient wraps the go-redis connection used by the catalog cache.
type RedisClient struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisClient(addr string, log *logrus.Logger) (*RedisClient, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Infof("Connected to Redis at %s", addr)
	return &RedisClient{client: client, log: log}, nil
}

func (c *RedisClient) Close() {
	if c != nil && c.client != nil {
		if err := c.client.Close(); err != nil {
			c.log.Warnf("Error closing Redis connection: %v", err)
		}
	}
}
