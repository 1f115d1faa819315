package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	RedisBackend  = "redis"
	MemoryBackend = "memory"
)

var (
	ErrCacheMiss      = errors.New("cache: key not found")
	ErrUnknownBackend = errors.New("cache: unknown backend")
)

// Cache is our generic cache interface.
type Cache[V any] interface {
	// Get returns the value or ErrCacheMiss.
	Get(ctx context.Context, key string) (V, error)
	// Set stores value under key, with TTL. Zero ttl = no expiration.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	// Delete removes the key.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Options selects and tunes a backend.
type Options struct {
	Backend string
	Redis   *RedisOptions
	Memory  MemoryOptions
}

// New builds the cache named by opts.Backend.
func New[V any](opts Options) (Cache[V], error) {
	switch opts.Backend {
	case RedisBackend:
		if opts.Redis == nil {
			return nil, fmt.Errorf("cache: redis backend needs redis options")
		}
		return NewRedisCache[V](opts.Redis), nil
	case MemoryBackend, "":
		return NewMemoryCache[V](opts.Memory), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Namespaced prefixes every key with prefix + ":", so several consumers can
// share one backend.
func Namespaced[V any](c Cache[V], prefix string) Cache[V] {
	return &namespaced[V]{inner: c, prefix: prefix + ":"}
}

type namespaced[V any] struct {
	inner  Cache[V]
	prefix string
}

func (n *namespaced[V]) Get(ctx context.Context, key string) (V, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, value, ttl)
}

func (n *namespaced[V]) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// Close is a no-op; the owner of the shared backend closes it.
func (n *namespaced[V]) Close() error { return nil }

// Fetch returns the cached value for key, or calls load and caches its result
// for ttl. A failed load is never cached. Backend errors other than a miss
// fall through to load.
func Fetch[V any](ctx context.Context, c Cache[V], key string, ttl time.Duration, load func(context.Context) (V, error)) (V, bool, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, true, nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero V
		return zero, false, err
	}
	_ = c.Set(ctx, key, v, ttl)
	return v, false, nil
}
