package converter

import (
	"encoding/json"
	"time"

	"booking-core/internal/domain/reminder"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const ReminderColumns = `id, tenant_id, appointment_id, channel, recipient, data,
	scheduled_at, status, attempts, last_error, sent_at, created_at`

type ReminderRow struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	AppointmentID uuid.UUID
	Channel       string
	Recipient     string
	Data          []byte
	ScheduledAt   time.Time
	Status        string
	Attempts      int32
	LastError     string
	SentAt        pgtype.Timestamptz
	CreatedAt     time.Time
}

func (r *ReminderRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.TenantID, &r.AppointmentID, &r.Channel, &r.Recipient, &r.Data,
		&r.ScheduledAt, &r.Status, &r.Attempts, &r.LastError, &r.SentAt, &r.CreatedAt,
	}
}

func ReminderToDomain(r ReminderRow) (*reminder.Reminder, error) {
	data := map[string]string{}
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &data); err != nil {
			return nil, err
		}
	}
	return reminder.ReconstructReminder(
		r.ID, r.TenantID, r.AppointmentID,
		reminder.Channel(r.Channel),
		r.Recipient,
		data,
		r.ScheduledAt,
		reminder.Status(r.Status),
		int(r.Attempts),
		r.LastError,
		pgconv.TimePtrFromPgtype(r.SentAt),
		r.CreatedAt,
	), nil
}

func ReminderData(r *reminder.Reminder) ([]byte, error) {
	data := r.Data()
	if data == nil {
		data = map[string]string{}
	}
	return json.Marshal(data)
}
