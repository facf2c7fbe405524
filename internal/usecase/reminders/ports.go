package reminders

import (
	"context"
	"time"

	"booking-core/internal/domain/reminder"

	"github.com/google/uuid"
)

// Message is what a channel collaborator needs to deliver one reminder.
type Message struct {
	ReminderID    uuid.UUID
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	Channel       reminder.Channel
	Recipient     string
	Data          map[string]string
	ScheduledAt   time.Time
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func MessageFrom(r *reminder.Reminder) Message {
	return Message{
		ReminderID:    r.ID(),
		TenantID:      r.TenantID(),
		AppointmentID: r.AppointmentID(),
		Channel:       r.Channel(),
		Recipient:     r.Recipient(),
		Data:          r.Data(),
		ScheduledAt:   r.ScheduledAt(),
	}
}

// Template data keys written at reservation time.
const (
	DataClientName  = "clientName"
	DataServiceName = "serviceName"
	DataBranchName  = "branchName"
	DataDate        = "date"
	DataTime        = "time"
	DataStartAt     = "startAt"
)
