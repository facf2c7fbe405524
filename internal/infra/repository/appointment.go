package repository

import (
	"context"
	"fmt"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	"booking-core/internal/pkg/pgconv"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AppointmentRepository struct {
	db          DBTX
	lockTimeout time.Duration
}

func NewAppointmentRepository(db DBTX, lockTimeout time.Duration) *AppointmentRepository {
	return &AppointmentRepository{db: db, lockTimeout: lockTimeout}
}

// LockCalendars serializes writers per employee day with transaction-scoped advisory locks.
// lock_timeout bounds the wait; the lock is released on commit or rollback.
func (r *AppointmentRepository) LockCalendars(ctx context.Context, keys ...shared.CalendarKey) error {
	if r.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err := r.db.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, timeout); err != nil {
			return infra.WrapRepoErr("failed to set lock timeout", err)
		}
	}
	for _, key := range shared.SortedKeys(keys) {
		if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key.String()); err != nil {
			return infra.WrapRepoErr("failed to lock calendar "+key.String(), err)
		}
	}
	return nil
}

func (r *AppointmentRepository) Occupied(ctx context.Context, key shared.CalendarKey, exclude uuid.UUID) ([]schedule.Window, error) {
	rows, err := r.db.Query(ctx, `
		SELECT start_minute, end_minute
		FROM appointments
		WHERE tenant_id = $1 AND employee_id = $2 AND appointment_date = $3
		  AND status <> 'CANCELLED' AND id <> $4
		ORDER BY start_minute
	`, key.TenantID, key.EmployeeID, pgconv.DateToPgtype(key.Date.Time()), exclude)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read ledger", err)
	}
	defer rows.Close()

	var out []schedule.Window
	for rows.Next() {
		var start, end int32
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan ledger", err)
		}
		out = append(out, schedule.Window{Start: schedule.Minute(start), End: schedule.Minute(end)})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate ledger", err)
	}
	return out, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	row := converter.AppointmentToRow(a)
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (`+converter.AppointmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		row.ID, row.TenantID, row.BranchID, row.ServiceID, row.EmployeeID, row.ClientID,
		pgconv.DateToPgtype(row.Date), row.StartMinute, row.EndMinute, row.StartAt, row.EndAt,
		row.Status, row.Note, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create appointment", err)
	}
	return nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	row := converter.AppointmentToRow(a)
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET service_id = $3,
		    employee_id = $4,
		    appointment_date = $5,
		    start_minute = $6,
		    end_minute = $7,
		    start_at = $8,
		    end_at = $9,
		    status = $10,
		    note = $11,
		    updated_at = $12
		WHERE tenant_id = $1 AND id = $2
	`,
		row.TenantID, row.ID, row.ServiceID, row.EmployeeID,
		pgconv.DateToPgtype(row.Date), row.StartMinute, row.EndMinute, row.StartAt, row.EndAt,
		row.Status, row.Note, row.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "appointment not found")
	}
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	return r.find(ctx, tenantID, id, "")
}

// FindForUpdate reads the current row and holds its row lock until the transaction ends.
func (r *AppointmentRepository) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*appointment.Appointment, error) {
	return r.find(ctx, tenantID, id, "FOR UPDATE")
}

func (r *AppointmentRepository) find(ctx context.Context, tenantID, id uuid.UUID, lockClause string) (*appointment.Appointment, error) {
	var row converter.AppointmentRow
	err := r.db.QueryRow(ctx, `
		SELECT `+converter.AppointmentColumns+`
		FROM appointments
		WHERE tenant_id = $1 AND id = $2
		`+lockClause, tenantID, id).Scan(row.ScanTargets()...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find appointment", err)
	}
	return converter.AppointmentToDomain(row), nil
}

func (r *AppointmentRepository) ListByCalendar(ctx context.Context, key shared.CalendarKey) ([]*appointment.Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+converter.AppointmentColumns+`
		FROM appointments
		WHERE tenant_id = $1 AND employee_id = $2 AND appointment_date = $3
		ORDER BY start_minute, created_at
	`, key.TenantID, key.EmployeeID, pgconv.DateToPgtype(key.Date.Time()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointments", err)
	}
	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]*appointment.Appointment, error) {
	defer rows.Close()
	var out []*appointment.Appointment
	for rows.Next() {
		var row converter.AppointmentRow
		if err := rows.Scan(row.ScanTargets()...); err != nil {
			return nil, infra.WrapRepoErr("failed to scan appointment", err)
		}
		out = append(out, converter.AppointmentToDomain(row))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate appointments", err)
	}
	return out, nil
}
