// Package cache provides a generic cache adapter
// that wraps a byte-level cache driver, plus an in-memory driver.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
)

// Driver is the interface that any cache driver must implement
type Driver interface {
	// Get retrieves value by key, returns ErrNotFound if not exists
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value with TTL, zero means no expiry
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

// ErrNotFound is returned when key is not found
var ErrNotFound = contracts.ErrCacheMiss

// Adapter implements contracts.Cache on top of a Driver. Values are JSON encoded.
type Adapter struct {
	driver Driver
	prefix string
}

// New creates a new cache adapter
func New(driver Driver) *Adapter {
	return &Adapter{driver: driver}
}

// NewMemory creates an adapter backed by a fresh MemoryDriver
func NewMemory(config *contracts.CacheConfig) *Adapter {
	return New(NewMemoryDriver()).WithConfig(config)
}

// WithConfig applies the key prefix from config. Keys are stored as
// "prefix:key", the same layout the redis driver uses.
func (a *Adapter) WithConfig(config *contracts.CacheConfig) *Adapter {
	if config != nil {
		a.prefix = config.Prefix
	}
	return a
}

func (a *Adapter) key(k string) string {
	if a.prefix == "" {
		return k
	}
	return a.prefix + ":" + k
}

// Get retrieves value by key
func (a *Adapter) Get(ctx context.Context, key string, dest any) error {
	data, err := a.driver.Get(ctx, a.key(key))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores value with TTL
func (a *Adapter) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return a.driver.Set(ctx, a.key(key), data, ttl)
}

// Delete removes key
func (a *Adapter) Delete(ctx context.Context, key string) error {
	return a.driver.Delete(ctx, a.key(key))
}

// Exists checks if key exists
func (a *Adapter) Exists(ctx context.Context, key string) (bool, error) {
	return a.driver.Exists(ctx, a.key(key))
}

// DeletePrefix removes every key starting with prefix
func (a *Adapter) DeletePrefix(ctx context.Context, prefix string) error {
	return a.driver.DeletePrefix(ctx, a.key(prefix))
}

// Ping checks connection
func (a *Adapter) Ping(ctx context.Context) error {
	return a.driver.Ping(ctx)
}

// Close closes connection
func (a *Adapter) Close() error {
	return a.driver.Close()
}

// ============ In-Memory Cache Driver ============

// MemoryDriver is an in-memory cache implementation
type MemoryDriver struct {
	data    map[string]*cacheItem
	mu      sync.RWMutex
	stopCh  chan struct{}
	running bool
	now     func() time.Time
}

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

func (c *cacheItem) expired(now time.Time) bool {
	return !c.expiresAt.IsZero() && now.After(c.expiresAt)
}

// NewMemoryDriver creates an in-memory cache that purges expired keys every minute
func NewMemoryDriver() *MemoryDriver {
	return NewMemoryDriverWithInterval(time.Minute)
}

// NewMemoryDriverWithInterval creates an in-memory cache with a custom cleanup interval
func NewMemoryDriverWithInterval(interval time.Duration) *MemoryDriver {
	m := &MemoryDriver{
		data:   make(map[string]*cacheItem),
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
	m.startCleanup(interval)
	return m
}

func (m *MemoryDriver) startCleanup(interval time.Duration) {
	m.running = true
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.cleanup()
			}
		}
	}()
}

func (m *MemoryDriver) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, v := range m.data {
		if v.expired(now) {
			delete(m.data, k)
		}
	}
}

// Len returns the number of stored keys, expired ones included until cleanup
func (m *MemoryDriver) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryDriver) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.data[key]
	if !ok || item.expired(m.now()) {
		return nil, ErrNotFound
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (m *MemoryDriver) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := &cacheItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = item
	return nil
}

func (m *MemoryDriver) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryDriver) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.data[key]
	return ok && !item.expired(m.now()), nil
}

func (m *MemoryDriver) DeletePrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *MemoryDriver) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryDriver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		close(m.stopCh)
		m.running = false
	}
	return nil
}

// Ensure implementations satisfy their interfaces
var (
	_ contracts.Cache = (*Adapter)(nil)
	_ Driver          = (*MemoryDriver)(nil)
)
