package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

// RedisOptions configures a [RedisCache].
type RedisOptions struct {
	Addr     string // host:port, e.g. "localhost:6379"
	Password string
	DB       int
	Prefix   string // prepended to every key
}

// redisClient is the subset of the go-redis client used by RedisCache.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisCache stores entries in Redis with native expiration. It is meant
// for the HTTP server, where several replicas share one cache.
type RedisCache struct {
	client redisClient
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection with PING,
// retrying transient failures with backoff.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	c := newRedisCache(client, opts.Prefix)

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, errs.Wrap(errs.ErrCodeCache, err, "connect to redis at %s", opts.Addr)
	}
	return c, nil
}

func newRedisCache(client redisClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get retrieves a value.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeCache, err, "redis get")
	}
	return data, true, nil
}

// Set stores a value. A ttl of zero keeps the key until it is evicted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeCache, err, "redis set")
	}
	return nil
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return errs.Wrap(errs.ErrCodeCache, err, "redis del")
	}
	return nil
}

// Close closes the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
