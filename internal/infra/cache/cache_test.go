//go:build unit

package cache_test

import (
	"context"
	"testing"
	"time"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/infra/cache"
	"booking-core/internal/usecase/shared"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisSlotCache(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	c := cache.NewRedisSlotCache(rdb, time.Minute)

	key := shared.SlotCacheKey{
		TenantID:   uuid.New(),
		EmployeeID: uuid.New(),
		ServiceID:  uuid.New(),
		Date:       schedule.NewDate(2026, 6, 1),
		Step:       30,
	}

	t.Run("miss before set", func(t *testing.T) {
		got, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, got.Hit)
	})

	t.Run("hit after set", func(t *testing.T) {
		miss, err := c.Get(ctx, key)
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, key, miss.Version, []schedule.Minute{540, 570}))
		got, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, got.Hit)
		assert.Equal(t, []schedule.Minute{540, 570}, got.Slots)
	})

	t.Run("empty list is cached", func(t *testing.T) {
		other := key
		other.Date = key.Date.AddDays(1)
		miss, err := c.Get(ctx, other)
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, other, miss.Version, nil))
		got, err := c.Get(ctx, other)
		require.NoError(t, err)
		assert.True(t, got.Hit)
		assert.Empty(t, got.Slots)
	})

	t.Run("invalidate drops every day of the employee", func(t *testing.T) {
		require.NoError(t, c.Invalidate(ctx, key.TenantID, key.EmployeeID))
		got, err := c.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, got.Hit)
	})

	t.Run("list computed before an invalidation is never served", func(t *testing.T) {
		fresh := key
		fresh.ServiceID = uuid.New()
		miss, err := c.Get(ctx, fresh)
		require.NoError(t, err)
		require.False(t, miss.Hit)

		require.NoError(t, c.Invalidate(ctx, fresh.TenantID, fresh.EmployeeID))
		require.NoError(t, c.Set(ctx, fresh, miss.Version, []schedule.Minute{480}))

		got, err := c.Get(ctx, fresh)
		require.NoError(t, err)
		assert.False(t, got.Hit)
		assert.Greater(t, got.Version, miss.Version)
	})

	t.Run("other employees keep their entries", func(t *testing.T) {
		other := key
		other.EmployeeID = uuid.New()
		miss, err := c.Get(ctx, other)
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, other, miss.Version, []schedule.Minute{600}))
		require.NoError(t, c.Invalidate(ctx, key.TenantID, key.EmployeeID))
		got, err := c.Get(ctx, other)
		require.NoError(t, err)
		assert.True(t, got.Hit)
	})
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	rl := cache.NewRedisRateLimiter(rdb, 2, time.Minute)

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "tenant-a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := rl.Allow(ctx, "tenant-a")
	require.NoError(t, err)
	assert.False(t, ok, "third hit in the window is rejected")

	ok, err = rl.Allow(ctx, "tenant-b")
	require.NoError(t, err)
	assert.True(t, ok, "keys are counted separately")

	mr.FastForward(time.Minute + time.Second)
	ok, err = rl.Allow(ctx, "tenant-a")
	require.NoError(t, err)
	assert.True(t, ok, "window resets after expiry")
}
