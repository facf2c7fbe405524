//go:build unit

package reminder_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"booking-core/internal/domain/reminder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.October, 12, 9, 0, 0, 0, time.UTC)

func pending(t *testing.T) *reminder.Reminder {
	t.Helper()
	r, err := reminder.NewReminder(uuid.New(), uuid.New(), reminder.ChannelEmail, "sam@example.com", nil, now.Add(time.Hour), now)
	require.NoError(t, err)
	return r
}

func TestNewReminder(t *testing.T) {
	r := pending(t)
	assert.Equal(t, reminder.StatusPending, r.Status())
	assert.False(t, r.IsDue(now))
	assert.True(t, r.IsDue(now.Add(time.Hour)))

	_, err := reminder.NewReminder(uuid.New(), uuid.New(), "pigeon", "x", nil, now, now)
	assert.ErrorIs(t, err, reminder.ErrInvalidChannel)
	_, err = reminder.NewReminder(uuid.New(), uuid.New(), reminder.ChannelSMS, "", nil, now, now)
	assert.ErrorIs(t, err, reminder.ErrNoRecipient)
}

func TestReminderTransitions(t *testing.T) {
	t.Run("sent", func(t *testing.T) {
		r := pending(t)
		require.NoError(t, r.MarkSent(now))
		assert.Equal(t, reminder.StatusSent, r.Status())
		assert.Equal(t, 1, r.Attempts())
		require.NotNil(t, r.SentAt())
		assert.ErrorIs(t, r.MarkSent(now), reminder.ErrNotPending)
		assert.ErrorIs(t, r.Requeue(now), reminder.ErrNotFailed)
	})

	t.Run("failed then requeued", func(t *testing.T) {
		r := pending(t)
		require.NoError(t, r.MarkFailed(errors.New("smtp: 550 mailbox unavailable")))
		assert.Equal(t, reminder.StatusFailed, r.Status())
		assert.Equal(t, "smtp: 550 mailbox unavailable", r.LastError())
		assert.False(t, r.IsDue(now.Add(2*time.Hour)), "failed reminders are never due")

		require.NoError(t, r.Requeue(now))
		assert.Equal(t, reminder.StatusPending, r.Status())
		assert.True(t, r.IsDue(now))
		assert.Equal(t, 1, r.Attempts())
	})

	t.Run("long error is truncated", func(t *testing.T) {
		r := pending(t)
		require.NoError(t, r.MarkFailed(errors.New(strings.Repeat("x", 5000))))
		assert.Len(t, r.LastError(), 1000)
	})
}

func TestPlan(t *testing.T) {
	start := now.Add(48 * time.Hour)
	base := reminder.PlanInput{
		TenantID:      uuid.New(),
		AppointmentID: uuid.New(),
		StartAt:       start,
		Offsets:       []time.Duration{24 * time.Hour, time.Hour},
		Channels:      []reminder.Channel{reminder.ChannelEmail, reminder.ChannelSMS},
		Recipients: reminder.Recipients{
			reminder.ChannelEmail: "sam@example.com",
			reminder.ChannelSMS:   "+15550100",
		},
		Data: map[string]string{"clientName": "Sam"},
		Now:  now,
	}

	t.Run("one reminder per channel and offset", func(t *testing.T) {
		got := reminder.Plan(base)
		require.Len(t, got, 4)
		assert.Equal(t, start.Add(-24*time.Hour), got[0].ScheduledAt())
		assert.Equal(t, start.Add(-time.Hour), got[1].ScheduledAt())
		assert.Equal(t, reminder.ChannelSMS, got[2].Channel())
		assert.Equal(t, "+15550100", got[2].Recipient())
		assert.Equal(t, "Sam", got[3].Data()["clientName"])
	})

	t.Run("missing recipient skips the channel", func(t *testing.T) {
		in := base
		in.Recipients = reminder.Recipients{reminder.ChannelEmail: "sam@example.com"}
		got := reminder.Plan(in)
		require.Len(t, got, 2)
		for _, r := range got {
			assert.Equal(t, reminder.ChannelEmail, r.Channel())
		}
	})

	t.Run("send times already past are skipped", func(t *testing.T) {
		in := base
		in.StartAt = now.Add(2 * time.Hour)
		got := reminder.Plan(in)
		require.Len(t, got, 2)
		for _, r := range got {
			assert.Equal(t, now.Add(time.Hour), r.ScheduledAt())
		}
	})

	t.Run("no offsets", func(t *testing.T) {
		in := base
		in.Offsets = nil
		assert.Empty(t, reminder.Plan(in))
	})
}
