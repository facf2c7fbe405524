package request

import (
	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/usecase/commands"
)

// SettingsRequest is a partial update; absent fields keep their value.
type SettingsRequest struct {
	SlotStepMinutes        *int      `json:"slotStepMinutes" binding:"omitempty,min=5,max=240"`
	MinLeadTimeMinutes     *int      `json:"minLeadTimeMinutes" binding:"omitempty,min=0"`
	ClearMinLeadTime       bool      `json:"clearMinLeadTime"`
	ReminderOffsetsMinutes *[]int    `json:"reminderOffsetsMinutes" binding:"omitempty,dive,min=1,max=20160"`
	ReminderChannels       *[]string `json:"reminderChannels" binding:"omitempty,dive,oneof=email sms whatsapp"`
	DefaultStatus          *string   `json:"defaultStatus" binding:"omitempty,oneof=PENDING CONFIRMED"`
}

func (r SettingsRequest) ToPatch() commands.SettingsPatch {
	p := commands.SettingsPatch{
		SlotStepMinutes:        r.SlotStepMinutes,
		MinLeadTimeMinutes:     r.MinLeadTimeMinutes,
		ClearMinLeadTime:       r.ClearMinLeadTime,
		ReminderOffsetsMinutes: r.ReminderOffsetsMinutes,
	}
	if r.ReminderChannels != nil {
		channels := make([]reminder.Channel, 0, len(*r.ReminderChannels))
		for _, ch := range *r.ReminderChannels {
			channels = append(channels, reminder.Channel(ch))
		}
		p.ReminderChannels = &channels
	}
	if r.DefaultStatus != nil {
		status := appointment.Status(*r.DefaultStatus)
		p.DefaultStatus = &status
	}
	return p
}

type ReminderListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING SENT FAILED CANCELLED"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
}
