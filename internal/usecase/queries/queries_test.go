//go:build unit

package queries_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/catalog"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/infra/memstore"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/ptr"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-10-13 is a Tuesday
var tuesday = schedule.NewDate(2026, time.October, 13)

type recordingCache struct {
	mu      sync.Mutex
	entries map[shared.SlotCacheKey][]schedule.Minute
	gets    int
	sets    int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[shared.SlotCacheKey][]schedule.Minute{}}
}

func (c *recordingCache) Get(_ context.Context, key shared.SlotCacheKey) (shared.CachedSlots, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.entries[key]
	return shared.CachedSlots{Slots: v, Hit: ok}, nil
}

func (c *recordingCache) Set(_ context.Context, key shared.SlotCacheKey, _ int64, slots []schedule.Minute) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[key] = slots
	return nil
}

func (c *recordingCache) Invalidate(context.Context, uuid.UUID, uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

type world struct {
	store      *memstore.Store
	cache      *recordingCache
	clock      *clock.MockClock
	tenantID   uuid.UUID
	employeeID uuid.UUID
	idleEmpID  uuid.UUID
	serviceID  uuid.UUID
	slots      queries.SlotQueries
	tenants    queries.TenantQueries
}

func newWorld(t *testing.T) *world {
	t.Helper()

	w := &world{
		store:      memstore.New(time.Second),
		cache:      newRecordingCache(),
		clock:      clock.NewMockClock(time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)),
		tenantID:   uuid.New(),
		employeeID: uuid.New(),
		idleEmpID:  uuid.New(),
		serviceID:  uuid.New(),
	}
	branchID := uuid.New()

	branch, err := catalog.ReconstructBranch(branchID, w.tenantID, "Shibuya", "UTC")
	require.NoError(t, err)

	entries := make([]schedule.DayEntry, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		e := schedule.DayEntry{Weekday: d}
		if d != time.Sunday {
			e.IsWorkDay, e.Start, e.End = true, 8*60, 19*60
		}
		entries = append(entries, e)
	}
	weekly, err := schedule.NewWeekly(entries)
	require.NoError(t, err)

	w.store.PutTenant(tenant.ReconstructTenant(w.tenantID, "acme", "Acme", true))
	w.store.PutBranch(branch)
	w.store.PutService(catalog.ReconstructService(w.serviceID, w.tenantID, "Cut", 30, decimal.NewFromInt(40), true))
	w.store.PutEmployee(catalog.ReconstructEmployee(w.employeeID, w.tenantID, branchID, "Aiko", true, []uuid.UUID{w.serviceID}))
	w.store.PutEmployee(catalog.ReconstructEmployee(w.idleEmpID, w.tenantID, branchID, "Kenji", true, []uuid.UUID{w.serviceID}))
	w.store.PutWeekly(w.tenantID, w.employeeID, weekly)

	defaults := tenant.Defaults{Settings: tenant.Settings{
		SlotStepMinutes: 30,
		DefaultStatus:   appointment.StatusConfirmed,
	}}
	w.slots = queries.NewSlotQueries(w.store, w.cache, defaults, w.clock)
	w.tenants = queries.NewTenantQueries(w.store, defaults)
	return w
}

func TestSlotQueries_Available(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 2回目はキャッシュから返す", func(t *testing.T) {
		w := newWorld(t)

		first, err := w.slots.Available(ctx, w.tenantID, w.employeeID, w.serviceID, tuesday)
		require.NoError(t, err)
		assert.False(t, first.Cached)
		assert.Len(t, first.Slots, 22)
		assert.Equal(t, "08:00", first.Slots[0].String())
		assert.Equal(t, "18:30", first.Slots[len(first.Slots)-1].String())
		assert.Equal(t, 1, w.cache.sets)

		second, err := w.slots.Available(ctx, w.tenantID, w.employeeID, w.serviceID, tuesday)
		require.NoError(t, err)
		assert.True(t, second.Cached)
		assert.Equal(t, first.Slots, second.Slots)
		assert.Equal(t, 1, w.cache.sets)
	})

	t.Run("正常系: リードタイム設定時はキャッシュを使わない", func(t *testing.T) {
		w := newWorld(t)
		w.store.PutSettings(w.tenantID, tenant.Settings{
			SlotStepMinutes:    30,
			MinLeadTimeMinutes: ptr.Of(60),
			DefaultStatus:      appointment.StatusConfirmed,
		})
		w.clock.Set(time.Date(2026, time.October, 13, 12, 10, 0, 0, time.UTC))

		view, err := w.slots.Available(ctx, w.tenantID, w.employeeID, w.serviceID, tuesday)
		require.NoError(t, err)
		require.NotEmpty(t, view.Slots)
		assert.Equal(t, "13:30", view.Slots[0].String())
		assert.Len(t, view.Slots, 11)
		assert.Zero(t, w.cache.gets)
		assert.Zero(t, w.cache.sets)
	})

	t.Run("正常系: 予定表がない従業員は空", func(t *testing.T) {
		w := newWorld(t)

		view, err := w.slots.Available(ctx, w.tenantID, w.idleEmpID, w.serviceID, tuesday)
		require.NoError(t, err)
		assert.Empty(t, view.Slots)
	})

	t.Run("異常系", func(t *testing.T) {
		w := newWorld(t)

		_, err := w.slots.Available(ctx, w.tenantID, w.employeeID, w.serviceID, schedule.Date{})
		assert.True(t, errs.Is(err, errs.ErrValidation))

		_, err = w.slots.Available(ctx, w.tenantID, uuid.New(), w.serviceID, tuesday)
		assert.True(t, errs.Is(err, errs.ErrNotFound))

		_, err = w.slots.Available(ctx, uuid.New(), w.employeeID, w.serviceID, tuesday)
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})
}

func TestSlotQueries_Availability(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	view, err := w.slots.Availability(ctx, w.tenantID, w.employeeID, tuesday)
	require.NoError(t, err)
	assert.Equal(t, queries.SourceWeekly, view.Source)
	assert.Equal(t, []schedule.Window{{Start: 8 * 60, End: 19 * 60}}, view.Windows)

	none, err := w.slots.Availability(ctx, w.tenantID, w.idleEmpID, tuesday)
	require.NoError(t, err)
	assert.Equal(t, queries.SourceNone, none.Source)
	assert.Empty(t, none.Windows)

	exc, err := schedule.NewException(tuesday, schedule.ExceptionFullDayOff, nil, "holiday")
	require.NoError(t, err)
	require.NoError(t, w.store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Schedules().UpsertException(ctx, w.tenantID, w.employeeID, exc)
	}))

	off, err := w.slots.Availability(ctx, w.tenantID, w.employeeID, tuesday)
	require.NoError(t, err)
	assert.Equal(t, queries.SourceException, off.Source)
	assert.Equal(t, schedule.ExceptionFullDayOff, off.ExceptionType)
	assert.Empty(t, off.Windows)

	_, err = w.slots.Availability(ctx, w.tenantID, uuid.New(), tuesday)
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestTenantQueries_Resolve(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)
	inactiveID := uuid.New()
	w.store.PutTenant(tenant.ReconstructTenant(inactiveID, "closed", "Closed", false))

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "slug", key: "acme"},
		{name: "slug with case and spaces", key: "  ACME "},
		{name: "uuid", key: w.tenantID.String()},
		{name: "empty", key: " ", wantErr: errs.ErrValidation},
		{name: "unknown slug", key: "ghost", wantErr: errs.ErrNotFound},
		{name: "unknown uuid", key: uuid.NewString(), wantErr: errs.ErrNotFound},
		{name: "inactive", key: inactiveID.String(), wantErr: errs.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := w.tenants.Resolve(ctx, tt.key)
			if tt.wantErr != nil {
				assert.True(t, errs.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, w.tenantID, view.ID)
			assert.Equal(t, "acme", view.Slug)
		})
	}
}

func TestTenantQueries_Settings(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t)

	view, err := w.tenants.Settings(ctx, w.tenantID)
	require.NoError(t, err)
	assert.False(t, view.Stored)
	assert.Equal(t, 30, view.Settings.SlotStepMinutes)

	w.store.PutSettings(w.tenantID, tenant.Settings{SlotStepMinutes: 15, DefaultStatus: appointment.StatusPending})
	view, err = w.tenants.Settings(ctx, w.tenantID)
	require.NoError(t, err)
	assert.True(t, view.Stored)
	assert.Equal(t, 15, view.Settings.SlotStepMinutes)
}
