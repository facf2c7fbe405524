package reminder

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotPending     = errors.New("reminder is not pending")
	ErrNotFailed      = errors.New("only failed reminders can be requeued")
	ErrNoRecipient    = errors.New("reminder recipient is empty")
	ErrInvalidChannel = errors.New("invalid reminder channel")
)

const maxErrorLength = 1000

type Reminder struct {
	id            uuid.UUID
	tenantID      uuid.UUID
	appointmentID uuid.UUID
	channel       Channel
	recipient     string
	data          map[string]string
	scheduledAt   time.Time
	status        Status
	attempts      int
	lastError     string
	sentAt        *time.Time
	createdAt     time.Time
}

func NewReminder(tenantID, appointmentID uuid.UUID, channel Channel, recipient string, data map[string]string, scheduledAt, now time.Time) (*Reminder, error) {
	if !channel.IsValid() {
		return nil, ErrInvalidChannel
	}
	if recipient == "" {
		return nil, ErrNoRecipient
	}
	return &Reminder{
		id:            uuid.New(),
		tenantID:      tenantID,
		appointmentID: appointmentID,
		channel:       channel,
		recipient:     recipient,
		data:          data,
		scheduledAt:   scheduledAt,
		status:        StatusPending,
		createdAt:     now,
	}, nil
}

func ReconstructReminder(
	id, tenantID, appointmentID uuid.UUID,
	channel Channel,
	recipient string,
	data map[string]string,
	scheduledAt time.Time,
	status Status,
	attempts int,
	lastError string,
	sentAt *time.Time,
	createdAt time.Time,
) *Reminder {
	return &Reminder{
		id:            id,
		tenantID:      tenantID,
		appointmentID: appointmentID,
		channel:       channel,
		recipient:     recipient,
		data:          data,
		scheduledAt:   scheduledAt,
		status:        status,
		attempts:      attempts,
		lastError:     lastError,
		sentAt:        sentAt,
		createdAt:     createdAt,
	}
}

func (r *Reminder) IsDue(now time.Time) bool {
	return r.status == StatusPending && !r.scheduledAt.After(now)
}

func (r *Reminder) MarkSent(now time.Time) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusSent
	r.attempts++
	r.lastError = ""
	r.sentAt = &now
	return nil
}

// MarkFailed is terminal: the dispatcher never retries a failed reminder on its own.
func (r *Reminder) MarkFailed(cause error) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusFailed
	r.attempts++
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	if len(msg) > maxErrorLength {
		msg = msg[:maxErrorLength]
	}
	r.lastError = msg
	return nil
}

// Requeue moves a failed reminder back to pending, due at the given time.
func (r *Reminder) Requeue(at time.Time) error {
	if r.status != StatusFailed {
		return ErrNotFailed
	}
	r.status = StatusPending
	r.scheduledAt = at
	return nil
}

func (r *Reminder) ID() uuid.UUID            { return r.id }
func (r *Reminder) TenantID() uuid.UUID      { return r.tenantID }
func (r *Reminder) AppointmentID() uuid.UUID { return r.appointmentID }
func (r *Reminder) Channel() Channel         { return r.channel }
func (r *Reminder) Recipient() string        { return r.recipient }
func (r *Reminder) Data() map[string]string  { return r.data }
func (r *Reminder) ScheduledAt() time.Time   { return r.scheduledAt }
func (r *Reminder) Status() Status           { return r.status }
func (r *Reminder) Attempts() int            { return r.attempts }
func (r *Reminder) LastError() string        { return r.lastError }
func (r *Reminder) SentAt() *time.Time       { return r.sentAt }
func (r *Reminder) CreatedAt() time.Time     { return r.createdAt }
