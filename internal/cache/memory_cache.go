package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const (
	defaultShardCount      = 64
	defaultJanitorInterval = time.Minute
)

// MemoryOptions tunes the in-process backend. Zero values pick defaults.
type MemoryOptions struct {
	ShardCount      int
	JanitorInterval time.Duration
}

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero = no expiry
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type shard[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
}

// MemoryCache is a sharded in-process cache with a background janitor that
// evicts expired keys.
type MemoryCache[V any] struct {
	shards    []*shard[V]
	now       func() time.Time
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var _ Cache[string] = (*MemoryCache[string])(nil)

func NewMemoryCache[V any](opts MemoryOptions) *MemoryCache[V] {
	if opts.ShardCount <= 0 {
		opts.ShardCount = defaultShardCount
	}
	if opts.JanitorInterval <= 0 {
		opts.JanitorInterval = defaultJanitorInterval
	}

	mc := &MemoryCache[V]{
		shards: make([]*shard[V], opts.ShardCount),
		now:    time.Now,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for i := range mc.shards {
		mc.shards[i] = &shard[V]{entries: make(map[string]entry[V])}
	}
	go mc.janitor(opts.JanitorInterval)
	return mc
}

func (mc *MemoryCache[V]) shardFor(key string) *shard[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return mc.shards[h.Sum32()%uint32(len(mc.shards))]
}

func (mc *MemoryCache[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	s := mc.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return zero, ErrCacheMiss
	}
	if e.expired(mc.now()) {
		delete(s.entries, key)
		return zero, ErrCacheMiss
	}
	return e.value, nil
}

func (mc *MemoryCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = mc.now().Add(ttl)
	}
	s := mc.shardFor(key)
	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

func (mc *MemoryCache[V]) Delete(_ context.Context, key string) error {
	s := mc.shardFor(key)
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close stops the janitor and waits for it to exit.
func (mc *MemoryCache[V]) Close() error {
	mc.closeOnce.Do(func() { close(mc.quit) })
	<-mc.done
	return nil
}

// Len counts live entries.
func (mc *MemoryCache[V]) Len() int {
	now := mc.now()
	n := 0
	for _, s := range mc.shards {
		s.mu.Lock()
		for _, e := range s.entries {
			if !e.expired(now) {
				n++
			}
		}
		s.mu.Unlock()
	}
	return n
}

func (mc *MemoryCache[V]) evictExpired() {
	now := mc.now()
	for _, s := range mc.shards {
		s.mu.Lock()
		for k, e := range s.entries {
			if e.expired(now) {
				delete(s.entries, k)
			}
		}
		s.mu.Unlock()
	}
}

func (mc *MemoryCache[V]) janitor(interval time.Duration) {
	defer close(mc.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			mc.evictExpired()
		case <-mc.quit:
			return
		}
	}
}
