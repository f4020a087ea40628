package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key does not exist or expired
var ErrCacheMiss = errors.New("cache: key not found")

// Cache adalah generic interface untuk render cache.
// Implementasi bisa Redis, in-memory, dll. Values are JSON encoded.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error

	// Connection
	Ping(ctx context.Context) error
	Close() error
}

// CacheConfig untuk konfigurasi cache
type CacheConfig struct {
	Driver   string        `mapstructure:"driver" validate:"omitempty,oneof=memory redis none"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	Database int           `mapstructure:"database" validate:"gte=0"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}
