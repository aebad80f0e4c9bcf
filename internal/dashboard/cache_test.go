package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guru03-coder/MediVerse/internal/models"
	"github.com/guru03-coder/MediVerse/internal/store"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisCache(client, "", time.Minute)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	mr, cache := setupTestRedis(t)
	ctx := context.Background()

	_, err := cache.Load(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	snap := store.New().Snapshot()
	require.NoError(t, cache.Save(ctx, snap))
	assert.True(t, mr.Exists(DefaultSnapshotKey))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Stats, got.Stats)
	require.Len(t, got.Patients, len(snap.Patients))
	assert.Equal(t, snap.Patients[0].PatientCode, got.Patients[0].PatientCode)
	assert.True(t, snap.Patients[0].CreatedAt.Equal(got.Patients[0].CreatedAt))
}

func TestRedisCache_Expires(t *testing.T) {
	mr, cache := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, store.Snapshot{Patients: []models.Patient{{ID: "x"}}}))
	mr.FastForward(2 * time.Minute)

	_, err := cache.Load(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	mr, cache := setupTestRedis(t)
	require.NoError(t, mr.Set(DefaultSnapshotKey, "not json"))

	_, err := cache.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_SeedsSyncer(t *testing.T) {
	_, cache := setupTestRedis(t)
	ctx := context.Background()

	// a live poll fills the cache
	first := NewSyncer(&fakeRemote{patients: []models.Patient{{ID: "live-1"}}}, store.New(), cache, Config{}, zerolog.Nop(), nil)
	require.NoError(t, first.Refresh(ctx))

	// a fresh process with the service down starts from the cached snapshot
	second := NewSyncer(&fakeRemote{failStats: true}, store.New(), cache, Config{}, zerolog.Nop(), nil)
	_ = second.Refresh(ctx)

	v := second.View()
	assert.Equal(t, SourceCache, v.Source)
	require.Len(t, v.Patients, 1)
	assert.Equal(t, "live-1", v.Patients[0].ID)
}

func TestMemoryCache_TTL(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Save(context.Background(), store.Snapshot{}))
	_, err := cache.Load(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = cache.Load(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}
