package tenant

import (
	"errors"
	"fmt"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/slot"
)

const (
	MinSlotStep = 5
	MaxSlotStep = 240
	// Reminders further out than two weeks are rejected
	MaxReminderOffset = 14 * 24 * time.Hour
)

var (
	ErrInvalidSlotStep       = errors.New("slot step must be between 5 and 240 minutes")
	ErrInvalidLeadTime       = errors.New("minimum lead time cannot be negative")
	ErrInvalidReminderOffset = errors.New("reminder offset must be positive and at most 14 days")
	ErrInvalidDefaultStatus  = errors.New("default appointment status must be PENDING or CONFIRMED")
)

// Settings are the per-tenant booking knobs. A tenant without a stored row uses Defaults.
type Settings struct {
	SlotStepMinutes    int
	MinLeadTimeMinutes *int
	ReminderOffsets    []time.Duration
	ReminderChannels   []reminder.Channel
	DefaultStatus      appointment.Status
}

func (s Settings) Validate() error {
	if s.SlotStepMinutes < MinSlotStep || s.SlotStepMinutes > MaxSlotStep {
		return ErrInvalidSlotStep
	}
	if s.MinLeadTimeMinutes != nil && *s.MinLeadTimeMinutes < 0 {
		return ErrInvalidLeadTime
	}
	for _, off := range s.ReminderOffsets {
		if off <= 0 || off > MaxReminderOffset {
			return ErrInvalidReminderOffset
		}
	}
	for _, ch := range s.ReminderChannels {
		if !ch.IsValid() {
			return fmt.Errorf("%w: %q", reminder.ErrInvalidChannel, ch)
		}
	}
	if s.DefaultStatus != appointment.StatusPending && s.DefaultStatus != appointment.StatusConfirmed {
		return ErrInvalidDefaultStatus
	}
	return nil
}

// SlotPolicy turns the optional lead time into a generator policy for date in loc.
// Without a lead time every slot of the day is offered, including past ones.
func (s Settings) SlotPolicy(now time.Time, loc *time.Location, date schedule.Date) slot.Policy {
	if s.MinLeadTimeMinutes == nil {
		return slot.Policy{}
	}
	earliest := now.Add(time.Duration(*s.MinLeadTimeMinutes) * time.Minute).In(loc)
	earliestDate := schedule.DateOf(earliest, loc)
	switch {
	case date.Before(earliestDate):
		return slot.NotBefore(schedule.MinutesPerDay + 1)
	case date.After(earliestDate):
		return slot.Policy{}
	default:
		m := schedule.Minute(earliest.Hour()*60 + earliest.Minute())
		if earliest.Second() > 0 || earliest.Nanosecond() > 0 {
			m++
		}
		return slot.NotBefore(m)
	}
}

// Defaults carries the deployment-wide fallback settings.
type Defaults struct {
	Settings Settings
}

func (d Defaults) Resolve(stored *Settings) Settings {
	if stored == nil {
		return d.Settings
	}
	return *stored
}
