package reminder

import (
	"time"

	"github.com/google/uuid"
)

// Recipients maps each channel to the address it delivers to. Empty addresses are skipped.
type Recipients map[Channel]string

type PlanInput struct {
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	StartAt       time.Time
	Offsets       []time.Duration
	Channels      []Channel
	Recipients    Recipients
	Data          map[string]string
	Now           time.Time
}

// Plan builds one pending reminder per (channel, offset) pair whose send time is still ahead of Now.
func Plan(in PlanInput) []*Reminder {
	var out []*Reminder
	for _, ch := range in.Channels {
		to := in.Recipients[ch]
		if to == "" {
			continue
		}
		for _, off := range in.Offsets {
			at := in.StartAt.Add(-off)
			if !at.After(in.Now) {
				continue
			}
			r, err := NewReminder(in.TenantID, in.AppointmentID, ch, to, in.Data, at, in.Now)
			if err != nil {
				continue
			}
			out = append(out, r)
		}
	}
	return out
}
