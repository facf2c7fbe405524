//go:build unit

package tenant_test

import (
	"testing"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/slot"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/pkg/ptr"

	"github.com/stretchr/testify/assert"
)

func baseSettings() tenant.Settings {
	return tenant.Settings{
		SlotStepMinutes:  30,
		ReminderOffsets:  []time.Duration{24 * time.Hour},
		ReminderChannels: []reminder.Channel{reminder.ChannelEmail},
		DefaultStatus:    appointment.StatusConfirmed,
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*tenant.Settings)
		errIs  error
	}{
		{name: "valid", mutate: func(*tenant.Settings) {}},
		{name: "minimum step", mutate: func(s *tenant.Settings) { s.SlotStepMinutes = 5 }},
		{name: "maximum step", mutate: func(s *tenant.Settings) { s.SlotStepMinutes = 240 }},
		{name: "step too small", mutate: func(s *tenant.Settings) { s.SlotStepMinutes = 4 }, errIs: tenant.ErrInvalidSlotStep},
		{name: "step too large", mutate: func(s *tenant.Settings) { s.SlotStepMinutes = 241 }, errIs: tenant.ErrInvalidSlotStep},
		{name: "zero lead time", mutate: func(s *tenant.Settings) { s.MinLeadTimeMinutes = ptr.Of(0) }},
		{name: "negative lead time", mutate: func(s *tenant.Settings) { s.MinLeadTimeMinutes = ptr.Of(-1) }, errIs: tenant.ErrInvalidLeadTime},
		{name: "zero offset", mutate: func(s *tenant.Settings) { s.ReminderOffsets = []time.Duration{0} }, errIs: tenant.ErrInvalidReminderOffset},
		{name: "offset beyond two weeks", mutate: func(s *tenant.Settings) { s.ReminderOffsets = []time.Duration{15 * 24 * time.Hour} }, errIs: tenant.ErrInvalidReminderOffset},
		{name: "unknown channel", mutate: func(s *tenant.Settings) { s.ReminderChannels = []reminder.Channel{"fax"} }, errIs: reminder.ErrInvalidChannel},
		{name: "cancelled default status", mutate: func(s *tenant.Settings) { s.DefaultStatus = appointment.StatusCancelled }, errIs: tenant.ErrInvalidDefaultStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.errIs == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.errIs)
		})
	}
}

func TestSettingsSlotPolicy(t *testing.T) {
	now := time.Date(2026, time.October, 13, 10, 20, 0, 0, time.UTC)
	today := schedule.NewDate(2026, time.October, 13)

	t.Run("no lead time restricts nothing", func(t *testing.T) {
		assert.Equal(t, slot.Policy{}, baseSettings().SlotPolicy(now, time.UTC, today))
	})

	s := baseSettings()
	s.MinLeadTimeMinutes = ptr.Of(60)

	t.Run("same day starts after the lead time", func(t *testing.T) {
		assert.Equal(t, slot.NotBefore(11*60+20), s.SlotPolicy(now, time.UTC, today))
	})

	t.Run("seconds round up to the next minute", func(t *testing.T) {
		p := s.SlotPolicy(now.Add(30*time.Second), time.UTC, today)
		assert.Equal(t, slot.NotBefore(11*60+21), p)
	})

	t.Run("later dates are unrestricted", func(t *testing.T) {
		assert.Equal(t, slot.Policy{}, s.SlotPolicy(now, time.UTC, today.AddDays(1)))
	})

	t.Run("past dates offer nothing", func(t *testing.T) {
		p := s.SlotPolicy(now, time.UTC, today.AddDays(-1))
		assert.False(t, slot.Fits([]schedule.Window{{Start: 0, End: schedule.MinutesPerDay}}, nil, 23*60, 30, p))
	})

	t.Run("evaluated in the branch zone", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		if err != nil {
			t.Skip("tzdata unavailable")
		}
		// 10:20 UTC + 60m is 20:20 in Tokyo on the same date
		assert.Equal(t, slot.NotBefore(20*60+20), s.SlotPolicy(now, tokyo, today))
	})
}

func TestDefaultsResolve(t *testing.T) {
	d := tenant.Defaults{Settings: baseSettings()}
	assert.Equal(t, 30, d.Resolve(nil).SlotStepMinutes)

	stored := baseSettings()
	stored.SlotStepMinutes = 15
	assert.Equal(t, 15, d.Resolve(&stored).SlotStepMinutes)
}
