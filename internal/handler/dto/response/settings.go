package response

import (
	"time"

	"booking-core/internal/domain/tenant"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type SettingsResponse struct {
	SlotStepMinutes        int      `json:"slotStepMinutes"`
	MinLeadTimeMinutes     *int     `json:"minLeadTimeMinutes"`
	ReminderOffsetsMinutes []int    `json:"reminderOffsetsMinutes"`
	ReminderChannels       []string `json:"reminderChannels"`
	DefaultStatus          string   `json:"defaultStatus"`
	Stored                 bool     `json:"stored"`
}

func FromSettings(s tenant.Settings, stored bool) *SettingsResponse {
	resp := &SettingsResponse{
		SlotStepMinutes:        s.SlotStepMinutes,
		MinLeadTimeMinutes:     s.MinLeadTimeMinutes,
		ReminderOffsetsMinutes: make([]int, 0, len(s.ReminderOffsets)),
		ReminderChannels:       make([]string, 0, len(s.ReminderChannels)),
		DefaultStatus:          string(s.DefaultStatus),
		Stored:                 stored,
	}
	for _, off := range s.ReminderOffsets {
		resp.ReminderOffsetsMinutes = append(resp.ReminderOffsetsMinutes, int(off/time.Minute))
	}
	for _, ch := range s.ReminderChannels {
		resp.ReminderChannels = append(resp.ReminderChannels, string(ch))
	}
	return resp
}

func FromSettingsView(v *queries.SettingsView) *SettingsResponse {
	return FromSettings(v.Settings, v.Stored)
}

type ReminderResponse struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID uuid.UUID  `json:"appointmentId"`
	Channel       string     `json:"channel"`
	Recipient     string     `json:"recipient"`
	ScheduledAt   time.Time  `json:"scheduledAt"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	LastError     string     `json:"lastError,omitempty"`
	SentAt        *time.Time `json:"sentAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func FromReminderView(v *queries.ReminderView) *ReminderResponse {
	return &ReminderResponse{
		ID:            v.ID,
		AppointmentID: v.AppointmentID,
		Channel:       string(v.Channel),
		Recipient:     v.Recipient,
		ScheduledAt:   v.ScheduledAt,
		Status:        string(v.Status),
		Attempts:      v.Attempts,
		LastError:     v.LastError,
		SentAt:        v.SentAt,
		CreatedAt:     v.CreatedAt,
	}
}

func FromReminderViews(vs []*queries.ReminderView) []*ReminderResponse {
	out := make([]*ReminderResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, FromReminderView(v))
	}
	return out
}
