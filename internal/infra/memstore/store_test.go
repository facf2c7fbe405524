//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/infra"
	"booking-core/internal/infra/memstore"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newAppointment(t *testing.T, ids memstore.DemoIDs, date schedule.Date, start schedule.Minute, duration int) *appointment.Appointment {
	t.Helper()
	a, err := appointment.NewAppointment(appointment.NewParams{
		TenantID:   ids.TenantID,
		BranchID:   ids.BranchID,
		ServiceID:  ids.ServiceID,
		EmployeeID: ids.EmployeeID,
		ClientID:   ids.ClientID,
		Date:       date,
		Start:      start,
		Duration:   duration,
		Now:        time.Now(),
	})
	require.NoError(t, err)
	return a
}

func seeded(t *testing.T, lockTimeout time.Duration) (*memstore.Store, memstore.DemoIDs) {
	t.Helper()
	store := memstore.New(lockTimeout)
	ids, err := memstore.SeedDemo(store)
	require.NoError(t, err)
	return store, ids
}

func TestStore_RollbackUndoesWrites(t *testing.T) {
	store, ids := seeded(t, time.Second)
	ctx := context.Background()
	date := schedule.NewDate(2026, 6, 1)

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Appointments().Create(ctx, newAppointment(t, ids, date, 9*60, 30)))
		exc, err := schedule.NewException(date, schedule.ExceptionFullDayOff, nil, "")
		require.NoError(t, err)
		require.NoError(t, tx.Schedules().UpsertException(ctx, ids.TenantID, ids.EmployeeID, exc))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	assert.Empty(t, store.Appointments())
	err = store.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		exc, err := tx.Schedules().Exception(ctx, ids.TenantID, ids.EmployeeID, date)
		assert.Nil(t, exc)
		return err
	})
	require.NoError(t, err)
}

func TestStore_CreateRejectsOverlap(t *testing.T) {
	store, ids := seeded(t, time.Second)
	ctx := context.Background()
	date := schedule.NewDate(2026, 6, 1)

	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().Create(ctx, newAppointment(t, ids, date, 9*60, 60))
	}))

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().Create(ctx, newAppointment(t, ids, date, 9*60+30, 30))
	})
	assert.True(t, infra.IsKind(err, infra.KindConflict), "expected conflict, got %v", err)

	// touching intervals do not overlap
	err = store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().Create(ctx, newAppointment(t, ids, date, 10*60, 30))
	})
	require.NoError(t, err)
	assert.Len(t, store.Appointments(), 2)
}

func TestStore_LockCalendarsTimesOut(t *testing.T) {
	store, ids := seeded(t, 50*time.Millisecond)
	ctx := context.Background()
	key := shared.CalendarKey{TenantID: ids.TenantID, EmployeeID: ids.EmployeeID, Date: schedule.NewDate(2026, 6, 1)}

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Appointments().LockCalendars(ctx, key); err != nil {
				return err
			}
			close(locked)
			<-done
			return nil
		})
	}()
	<-locked

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().LockCalendars(ctx, key)
	})
	assert.True(t, infra.IsKind(err, infra.KindLockTimeout), "expected lock timeout, got %v", err)

	// a different employee day is independent
	other := key
	other.Date = key.Date.AddDays(1)
	err = store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().LockCalendars(ctx, other)
	})
	require.NoError(t, err)

	close(done)
}

func TestStore_ClaimDueSkipsClaimed(t *testing.T) {
	store, ids := seeded(t, time.Second)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	appointmentID := uuid.New()

	var rs []*reminder.Reminder
	for i := 0; i < 3; i++ {
		r, err := reminder.NewReminder(ids.TenantID, appointmentID, reminder.ChannelEmail, "sam@example.com", nil, now.Add(-time.Duration(i)*time.Minute), now.Add(-time.Hour))
		require.NoError(t, err)
		rs = append(rs, r)
	}
	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Reminders().CreateBatch(ctx, rs)
	}))

	claimed := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			got, err := tx.Reminders().ClaimDue(ctx, now, 2)
			assert.Len(t, got, 2)
			close(claimed)
			<-done
			return err
		})
	}()
	<-claimed

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		got, err := tx.Reminders().ClaimDue(ctx, now, 10)
		assert.Len(t, got, 1)
		return err
	})
	require.NoError(t, err)
	close(done)
}
