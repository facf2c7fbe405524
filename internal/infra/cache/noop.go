package cache

import (
	"context"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// NoopSlotCache always misses. Used when Redis is not configured.
type NoopSlotCache struct{}

var _ shared.SlotCache = NoopSlotCache{}

func (NoopSlotCache) Get(context.Context, shared.SlotCacheKey) (shared.CachedSlots, error) {
	return shared.CachedSlots{}, nil
}

func (NoopSlotCache) Set(context.Context, shared.SlotCacheKey, int64, []schedule.Minute) error {
	return nil
}

func (NoopSlotCache) Invalidate(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

// AllowAllLimiter never limits.
type AllowAllLimiter struct{}

func (AllowAllLimiter) Allow(context.Context, string) (bool, error) {
	return true, nil
}
