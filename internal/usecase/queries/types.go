package queries

import (
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/tenant"

	"github.com/google/uuid"
)

// SlotsView lists bookable start times of one employee day.
type SlotsView struct {
	Date       schedule.Date
	EmployeeID uuid.UUID
	ServiceID  uuid.UUID
	Step       int
	Slots      []schedule.Minute
	Cached     bool
}

type AvailabilitySource string

const (
	SourceWeekly    AvailabilitySource = "weekly"
	SourceException AvailabilitySource = "exception"
	SourceNone      AvailabilitySource = "none"
)

// AvailabilityView is the resolved working windows of one employee day.
type AvailabilityView struct {
	Date          schedule.Date
	EmployeeID    uuid.UUID
	Source        AvailabilitySource
	ExceptionType schedule.ExceptionType
	Windows       []schedule.Window
	Occupied      []schedule.Window
}

type AppointmentView struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	BranchID   uuid.UUID
	ServiceID  uuid.UUID
	EmployeeID uuid.UUID
	ClientID   uuid.UUID
	Date       schedule.Date
	Start      schedule.Minute
	End        schedule.Minute
	StartAt    time.Time
	EndAt      time.Time
	Status     appointment.Status
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func ToAppointmentView(a *appointment.Appointment) *AppointmentView {
	return &AppointmentView{
		ID:         a.ID(),
		TenantID:   a.TenantID(),
		BranchID:   a.BranchID(),
		ServiceID:  a.ServiceID(),
		EmployeeID: a.EmployeeID(),
		ClientID:   a.ClientID(),
		Date:       a.Date(),
		Start:      a.Interval().Start,
		End:        a.Interval().End,
		StartAt:    a.StartAt(),
		EndAt:      a.EndAt(),
		Status:     a.Status(),
		Note:       a.Note(),
		CreatedAt:  a.CreatedAt(),
		UpdatedAt:  a.UpdatedAt(),
	}
}

type ReminderView struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	Channel       reminder.Channel
	Recipient     string
	ScheduledAt   time.Time
	Status        reminder.Status
	Attempts      int
	LastError     string
	SentAt        *time.Time
	CreatedAt     time.Time
}

func ToReminderView(r *reminder.Reminder) *ReminderView {
	return &ReminderView{
		ID:            r.ID(),
		AppointmentID: r.AppointmentID(),
		Channel:       r.Channel(),
		Recipient:     r.Recipient(),
		ScheduledAt:   r.ScheduledAt(),
		Status:        r.Status(),
		Attempts:      r.Attempts(),
		LastError:     r.LastError(),
		SentAt:        r.SentAt(),
		CreatedAt:     r.CreatedAt(),
	}
}

type TenantView struct {
	ID     uuid.UUID
	Slug   string
	Name   string
	Active bool
}

// SettingsView reports effective settings; Stored is false when deployment defaults apply.
type SettingsView struct {
	Settings tenant.Settings
	Stored   bool
}
