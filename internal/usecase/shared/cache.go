package shared

import (
	"context"

	"booking-core/internal/domain/schedule"

	"github.com/google/uuid"
)

type SlotCacheKey struct {
	TenantID   uuid.UUID
	EmployeeID uuid.UUID
	ServiceID  uuid.UUID
	Date       schedule.Date
	Step       int
}

// CachedSlots is the result of a lookup. Version is the invalidation generation the lookup saw.
type CachedSlots struct {
	Slots   []schedule.Minute
	Hit     bool
	Version int64
}

// SlotCache holds display-path slot lists. Entries may be stale; reservations never consult it.
type SlotCache interface {
	Get(ctx context.Context, key SlotCacheKey) (CachedSlots, error)
	// Set stores slots computed after a Get that returned version. When the employee was
	// invalidated in between, the entry is written to a retired generation and never served.
	Set(ctx context.Context, key SlotCacheKey, version int64, slots []schedule.Minute) error
	// Invalidate drops every cached day of the employee.
	Invalidate(ctx context.Context, tenantID, employeeID uuid.UUID) error
}
