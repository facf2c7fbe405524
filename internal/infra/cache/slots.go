package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	slotKeyPrefix = "slots"
	// gen keys only need to outlive the slot entries they version
	generationTTL = 24 * time.Hour
)

// RedisSlotCache versions entries by a per-employee generation counter.
// Invalidate bumps the counter, so every cached day of the employee becomes unreachable at once.
type RedisSlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ shared.SlotCache = (*RedisSlotCache)(nil)

func NewRedisSlotCache(rdb *redis.Client, ttl time.Duration) *RedisSlotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisSlotCache{rdb: rdb, ttl: ttl}
}

func generationKey(tenantID, employeeID uuid.UUID) string {
	return fmt.Sprintf("%s:gen:%s:%s", slotKeyPrefix, tenantID, employeeID)
}

func entryKey(key shared.SlotCacheKey, gen int64) string {
	return fmt.Sprintf("%s:%s:%s:%d:%s:%s:%d",
		slotKeyPrefix, key.TenantID, key.EmployeeID, gen, key.Date, key.ServiceID, key.Step)
}

func (c *RedisSlotCache) generation(ctx context.Context, tenantID, employeeID uuid.UUID) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(tenantID, employeeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *RedisSlotCache) Get(ctx context.Context, key shared.SlotCacheKey) (shared.CachedSlots, error) {
	gen, err := c.generation(ctx, key.TenantID, key.EmployeeID)
	if err != nil {
		return shared.CachedSlots{}, err
	}
	miss := shared.CachedSlots{Version: gen}
	raw, err := c.rdb.Get(ctx, entryKey(key, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return miss, nil
	}
	if err != nil {
		return miss, err
	}
	var minutes []int
	if err := json.Unmarshal(raw, &minutes); err != nil {
		return miss, err
	}
	slots := make([]schedule.Minute, 0, len(minutes))
	for _, m := range minutes {
		slots = append(slots, schedule.Minute(m))
	}
	return shared.CachedSlots{Slots: slots, Hit: true, Version: gen}, nil
}

// Set writes under version, never the current generation: a list computed before an
// invalidation must not become visible after it.
func (c *RedisSlotCache) Set(ctx context.Context, key shared.SlotCacheKey, version int64, slots []schedule.Minute) error {
	minutes := make([]int, 0, len(slots))
	for _, s := range slots {
		minutes = append(minutes, int(s))
	}
	raw, err := json.Marshal(minutes)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, entryKey(key, version), raw, c.ttl).Err()
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, tenantID, employeeID uuid.UUID) error {
	genKey := generationKey(tenantID, employeeID)
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, generationTTL)
	_, err := pipe.Exec(ctx)
	return err
}
