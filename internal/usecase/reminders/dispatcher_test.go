//go:build unit

package reminders_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"booking-core/internal/domain/reminder"
	"booking-core/internal/infra/memstore"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/reminders"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg reminders.Message) error {
	return m.Called(ctx, msg).Error(0)
}

var now = time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC)

func seedReminders(t *testing.T, store *memstore.Store, rs ...*reminder.Reminder) {
	t.Helper()
	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Reminders().CreateBatch(ctx, rs)
	})
	require.NoError(t, err)
}

func newReminder(t *testing.T, tenantID uuid.UUID, ch reminder.Channel, to string, at time.Time) *reminder.Reminder {
	t.Helper()
	r, err := reminder.NewReminder(tenantID, uuid.New(), ch, to, map[string]string{reminders.DataClientName: "Sam"}, at, now.Add(-48*time.Hour))
	require.NoError(t, err)
	return r
}

func byID(store *memstore.Store) map[uuid.UUID]*reminder.Reminder {
	out := map[uuid.UUID]*reminder.Reminder{}
	for _, r := range store.Reminders() {
		out[r.ID()] = r
	}
	return out
}

func TestDispatcher_Sweep(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("delivers due reminders and records the outcome", func(t *testing.T) {
		store := memstore.New(time.Second)
		ok := newReminder(t, tenantID, reminder.ChannelEmail, "sam@example.com", now.Add(-time.Minute))
		bad := newReminder(t, tenantID, reminder.ChannelSMS, "+15550100", now)
		later := newReminder(t, tenantID, reminder.ChannelEmail, "sam@example.com", now.Add(time.Hour))
		seedReminders(t, store, ok, bad, later)

		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.MatchedBy(func(m reminders.Message) bool { return m.ReminderID == ok.ID() })).
			Return(nil).Once()
		sender.On("Send", mock.Anything, mock.MatchedBy(func(m reminders.Message) bool { return m.ReminderID == bad.ID() })).
			Return(errors.New("gateway rejected number")).Once()

		d := reminders.NewDispatcher(store, sender, clock.NewMockClock(now), nil, config.ReminderConfig{})
		res, err := d.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, reminders.SweepResult{Claimed: 2, Sent: 1, Failed: 1}, res)
		sender.AssertExpectations(t)

		got := byID(store)
		assert.Equal(t, reminder.StatusSent, got[ok.ID()].Status())
		require.NotNil(t, got[ok.ID()].SentAt())
		assert.Equal(t, reminder.StatusFailed, got[bad.ID()].Status())
		assert.Contains(t, got[bad.ID()].LastError(), "gateway rejected number")
		assert.Equal(t, reminder.StatusPending, got[later.ID()].Status())
	})

	t.Run("failed reminders are not retried until requeued", func(t *testing.T) {
		store := memstore.New(time.Second)
		bad := newReminder(t, tenantID, reminder.ChannelEmail, "sam@example.com", now)
		seedReminders(t, store, bad)
		clk := clock.NewMockClock(now)

		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
		d := reminders.NewDispatcher(store, sender, clk, nil, config.ReminderConfig{})

		_, err := d.Sweep(ctx)
		require.NoError(t, err)
		clk.Add(time.Hour)
		res, err := d.Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, res.Claimed)

		requeued, err := commands.NewReminderCommands(store, clk).Requeue(ctx, tenantID, bad.ID())
		require.NoError(t, err)
		assert.Equal(t, reminder.StatusPending, requeued.Status)

		sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
		res, err = d.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Sent)
		assert.Equal(t, 2, byID(store)[bad.ID()].Attempts())
		sender.AssertExpectations(t)
	})

	t.Run("batch size bounds one sweep", func(t *testing.T) {
		store := memstore.New(time.Second)
		for i := range 5 {
			seedReminders(t, store, newReminder(t, tenantID, reminder.ChannelEmail, "sam@example.com", now.Add(-time.Duration(i)*time.Minute)))
		}
		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.Anything).Return(nil)

		d := reminders.NewDispatcher(store, sender, clock.NewMockClock(now), nil, config.ReminderConfig{BatchSize: 2})
		res, err := d.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Claimed)
		res, err = d.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Claimed)
		res, err = d.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Claimed)
	})

	t.Run("send timeout becomes a delivery failure", func(t *testing.T) {
		store := memstore.New(time.Second)
		slow := newReminder(t, tenantID, reminder.ChannelWhatsApp, "+15550100", now)
		seedReminders(t, store, slow)

		sender := &mockSender{}
		sender.On("Send", mock.Anything, mock.Anything).Return(context.DeadlineExceeded).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			})

		d := reminders.NewDispatcher(store, sender, clock.NewMockClock(now), nil, config.ReminderConfig{SendTimeout: 20 * time.Millisecond})
		res, err := d.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Failed)
		assert.Equal(t, reminder.StatusFailed, byID(store)[slow.ID()].Status())
	})
}

func TestDispatcher_Lifecycle(t *testing.T) {
	store := memstore.New(time.Second)
	tenantID := uuid.New()
	due := newReminder(t, tenantID, reminder.ChannelEmail, "sam@example.com", now)
	seedReminders(t, store, due)

	delivered := make(chan reminders.Message, 1)
	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		delivered <- args.Get(1).(reminders.Message)
	})

	d := reminders.NewDispatcher(store, sender, clock.NewMockClock(now), nil, config.ReminderConfig{Interval: 10 * time.Millisecond})
	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Start(context.Background()), "second start is a no-op")

	select {
	case msg := <-delivered:
		assert.Equal(t, due.ID(), msg.ReminderID)
		assert.Equal(t, "Sam", msg.Data[reminders.DataClientName])
	case <-time.After(2 * time.Second):
		t.Fatal("reminder was not delivered")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(stopCtx))
	require.NoError(t, d.Stop(stopCtx), "second stop is a no-op")
	assert.Equal(t, reminder.StatusSent, byID(store)[due.ID()].Status())
}
