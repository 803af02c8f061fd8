package cache

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghoshnapatra/ghoshna/pkg/retry"
)

// redisClient is the subset of the go-redis client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Close() error
}

// RedisCache stores entries in Redis. Expiry is delegated to Redis TTLs.
type RedisCache struct {
	client redisClient
	prefix string // namespace owned by this cache, used by Clear
}

// RedisOptions configures NewRedisCache.
type RedisOptions struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string
	// Prefix namespaces keys so Clear only touches this cache's entries.
	Prefix string
}

// NewRedisCache connects to Redis and verifies the connection, retrying
// briefly while the server comes up.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(ro)
	err = retry.Do(ctx, retry.DefaultPolicy, func(ctx context.Context) error {
		return retry.Transient(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return &RedisCache{client: client, prefix: opts.Prefix}, nil
}

// Prefix returns the key namespace.
func (c *RedisCache) Prefix() string { return c.prefix }

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in Redis.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Clear deletes every key under the cache prefix. Without a prefix it
// refuses rather than wiping a shared database.
func (c *RedisCache) Clear(ctx context.Context) error {
	if c.prefix == "" {
		return stderrors.New("redis cache has no prefix; refusing to clear")
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache and Clearer.
var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
