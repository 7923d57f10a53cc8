package cache

import (
	"context"
	"errors"

	"github.com/Domenick1991/agentair/config"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a durable key/value store for session settings such as the
// analytics consent decision.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		prefix: cfg.KeyPrefix,
	}
}

func (c *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisStore) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, c.key(key), value, 0).Err()
}

func (c *RedisStore) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStore) Close() error {
	return c.client.Close()
}

func (c *RedisStore) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}
