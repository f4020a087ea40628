// Package redis provides a Redis implementation of the editorkit Cache interface.
//
// Usage:
//
//	import (
//	    "github.com/madcok-co/editorkit/contrib/cache/redis"
//	    goredis "github.com/redis/go-redis/v9"
//	)
//
//	rdb := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//	driver := redis.NewDriver(rdb, redis.WithPrefix("editorkit"))
//	svc := host.New(registry, host.WithCache(driver))
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/redis/go-redis/v9"
)

// scanCount is the COUNT hint used while scanning for DeletePrefix
const scanCount = 100

// Driver implements contracts.Cache using Redis
type Driver struct {
	client *redis.Client
	prefix string
}

// Option configures the Driver
type Option func(*Driver)

// WithPrefix sets a key prefix for all cache operations
func WithPrefix(prefix string) Option {
	return func(d *Driver) {
		d.prefix = prefix
	}
}

// NewDriver creates a new Redis cache driver
func NewDriver(client *redis.Client, opts ...Option) *Driver {
	d := &Driver{client: client}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDriverWithConfig creates a client from cache config
func NewDriverWithConfig(cfg contracts.CacheConfig) *Driver {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	return NewDriver(client, WithPrefix(cfg.Prefix))
}

// Client returns the underlying Redis client
func (d *Driver) Client() *redis.Client {
	return d.client
}

func (d *Driver) key(k string) string {
	if d.prefix == "" {
		return k
	}
	return d.prefix + ":" + k
}

// Get retrieves a value from cache
func (d *Driver) Get(ctx context.Context, key string, dest any) error {
	val, err := d.client.Get(ctx, d.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return contracts.ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(val, dest)
}

// Set stores a value in cache with TTL
func (d *Driver) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return d.client.Set(ctx, d.key(key), data, ttl).Err()
}

// Delete removes a key from cache
func (d *Driver) Delete(ctx context.Context, key string) error {
	return d.client.Del(ctx, d.key(key)).Err()
}

// Exists checks if a key exists in cache
func (d *Driver) Exists(ctx context.Context, key string) (bool, error) {
	result, err := d.client.Exists(ctx, d.key(key)).Result()
	return result > 0, err
}

// DeletePrefix removes every key starting with prefix using SCAN
func (d *Driver) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := escapePattern(d.key(prefix)) + "*"

	iter := d.client.Scan(ctx, 0, pattern, scanCount).Iterator()
	batch := make([]string, 0, scanCount)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanCount {
			if err := d.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return d.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Ping checks Redis connection
func (d *Driver) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

// Close closes Redis connection
func (d *Driver) Close() error {
	return d.client.Close()
}

// escapePattern quotes glob metacharacters for MATCH
func escapePattern(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Ensure Driver implements contracts.Cache
var _ contracts.Cache = (*Driver)(nil)
