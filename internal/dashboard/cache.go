package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/guru03-coder/MediVerse/internal/store"
)

// ErrCacheMiss is returned when no usable snapshot is cached
var ErrCacheMiss = errors.New("cache miss")

// DefaultSnapshotKey is the Redis key of the last live snapshot
const DefaultSnapshotKey = "mediverse:dashboard:snapshot"

// SnapshotCache keeps the last snapshot loaded from the remote service so a
// restarted process can show it before the service comes back.
type SnapshotCache interface {
	Load(ctx context.Context) (store.Snapshot, error)
	Save(ctx context.Context, snap store.Snapshot) error
}

// MemoryCache is a SnapshotCache held in process memory
type MemoryCache struct {
	mu      sync.RWMutex
	snap    *store.Snapshot
	savedAt time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a cache whose entry expires after ttl; zero never expires
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

// Load implements SnapshotCache
func (c *MemoryCache) Load(_ context.Context) (store.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return store.Snapshot{}, ErrCacheMiss
	}
	if c.ttl > 0 && c.now().Sub(c.savedAt) > c.ttl {
		return store.Snapshot{}, ErrCacheMiss
	}
	return *c.snap, nil
}

// Save implements SnapshotCache
func (c *MemoryCache) Save(_ context.Context, snap store.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = &snap
	c.savedAt = c.now()
	return nil
}

// RedisCache is a SnapshotCache stored as JSON under a single Redis key
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. An empty key uses DefaultSnapshotKey.
func NewRedisCache(client *redis.Client, key string, ttl time.Duration) *RedisCache {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &RedisCache{client: client, key: key, ttl: ttl}
}

// Load implements SnapshotCache
func (c *RedisCache) Load(ctx context.Context) (store.Snapshot, error) {
	val, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return store.Snapshot{}, ErrCacheMiss
		}
		return store.Snapshot{}, fmt.Errorf("redis get %s: %w", c.key, err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return snap, nil
}

// Save implements SnapshotCache
func (c *RedisCache) Save(ctx context.Context, snap store.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}
