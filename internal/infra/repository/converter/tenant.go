package converter

import (
	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

type SettingsRow struct {
	SlotStepMinutes    int32
	MinLeadTimeMinutes pgtype.Int4
	ReminderOffsets    []int32
	ReminderChannels   []string
	DefaultStatus      string
}

func SettingsToDomain(r SettingsRow) *tenant.Settings {
	channels := make([]reminder.Channel, 0, len(r.ReminderChannels))
	for _, c := range r.ReminderChannels {
		channels = append(channels, reminder.Channel(c))
	}
	return &tenant.Settings{
		SlotStepMinutes:    int(r.SlotStepMinutes),
		MinLeadTimeMinutes: pgconv.IntPtrFromPgtype(r.MinLeadTimeMinutes),
		ReminderOffsets:    pgconv.DurationsFromMinutes(r.ReminderOffsets),
		ReminderChannels:   channels,
		DefaultStatus:      appointment.Status(r.DefaultStatus),
	}
}

func SettingsToRow(s tenant.Settings) SettingsRow {
	channels := make([]string, 0, len(s.ReminderChannels))
	for _, c := range s.ReminderChannels {
		channels = append(channels, string(c))
	}
	return SettingsRow{
		// #nosec G115 -- validated to 5..240
		SlotStepMinutes:    int32(s.SlotStepMinutes),
		MinLeadTimeMinutes: pgconv.IntPtrToPgtype(s.MinLeadTimeMinutes),
		ReminderOffsets:    pgconv.MinutesFromDurations(s.ReminderOffsets),
		ReminderChannels:   channels,
		DefaultStatus:      string(s.DefaultStatus),
	}
}
