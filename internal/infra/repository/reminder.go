package repository

import (
	"context"
	"time"

	"booking-core/internal/domain/reminder"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReminderRepository struct {
	db DBTX
}

func NewReminderRepository(db DBTX) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) CreateBatch(ctx context.Context, rs []*reminder.Reminder) error {
	if len(rs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rem := range rs {
		data, err := converter.ReminderData(rem)
		if err != nil {
			return infra.WrapRepoErr("failed to encode reminder data", err, infra.KindDBFailure)
		}
		batch.Queue(`
			INSERT INTO reminders (`+converter.ReminderColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`,
			rem.ID(), rem.TenantID(), rem.AppointmentID(), string(rem.Channel()), rem.Recipient(), data,
			rem.ScheduledAt(), string(rem.Status()), rem.Attempts(), rem.LastError(),
			pgconv.TimePtrToPgtype(rem.SentAt()), rem.CreatedAt(),
		)
	}
	results := r.db.SendBatch(ctx, batch)
	for range rs {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return infra.WrapRepoErr("failed to create reminders", err)
		}
	}
	if err := results.Close(); err != nil {
		return infra.WrapRepoErr("failed to create reminders", err)
	}
	return nil
}

func (r *ReminderRepository) CancelPending(ctx context.Context, tenantID, appointmentID uuid.UUID) (int, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE reminders
		SET status = 'CANCELLED', updated_at = now()
		WHERE tenant_id = $1 AND appointment_id = $2 AND status = 'PENDING'
	`, tenantID, appointmentID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to cancel reminders", err)
	}
	return int(tag.RowsAffected()), nil
}

// ClaimDue row-locks the oldest due reminders. Rows held by another sweeper are skipped,
// so concurrent instances never deliver the same reminder twice.
func (r *ReminderRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*reminder.Reminder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+converter.ReminderColumns+`
		FROM reminders
		WHERE status = 'PENDING' AND scheduled_at <= $1
		ORDER BY scheduled_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim due reminders", err)
	}
	return collectReminders(rows)
}

func (r *ReminderRepository) Save(ctx context.Context, rem *reminder.Reminder) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reminders
		SET status = $3,
		    attempts = $4,
		    last_error = $5,
		    sent_at = $6,
		    scheduled_at = $7,
		    updated_at = now()
		WHERE tenant_id = $1 AND id = $2
	`, rem.TenantID(), rem.ID(), string(rem.Status()), rem.Attempts(), rem.LastError(),
		pgconv.TimePtrToPgtype(rem.SentAt()), rem.ScheduledAt())
	if err != nil {
		return infra.WrapRepoErr("failed to save reminder", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "reminder not found")
	}
	return nil
}

func (r *ReminderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*reminder.Reminder, error) {
	var row converter.ReminderRow
	err := r.db.QueryRow(ctx, `
		SELECT `+converter.ReminderColumns+`
		FROM reminders
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id).Scan(row.ScanTargets()...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reminder", err)
	}
	rem, err := converter.ReminderToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode reminder", err, infra.KindDBFailure)
	}
	return rem, nil
}

func (r *ReminderRepository) ListByStatus(ctx context.Context, tenantID uuid.UUID, status reminder.Status, limit int) ([]*reminder.Reminder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+converter.ReminderColumns+`
		FROM reminders
		WHERE tenant_id = $1 AND status = $2
		ORDER BY scheduled_at
		LIMIT $3
	`, tenantID, string(status), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reminders", err)
	}
	return collectReminders(rows)
}

func collectReminders(rows pgx.Rows) ([]*reminder.Reminder, error) {
	defer rows.Close()
	var out []*reminder.Reminder
	for rows.Next() {
		var row converter.ReminderRow
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reminder", err)
		}
		rem, err := converter.ReminderToDomain(row)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to decode reminder", err, infra.KindDBFailure)
		}
		out = append(out, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reminders", err)
	}
	return out, nil
}
