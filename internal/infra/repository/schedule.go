package repository

import (
	"context"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/infra"
	"booking-core/internal/infra/repository/converter"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ScheduleRepository struct {
	db    DBTX
	clock clock.Clock
}

func NewScheduleRepository(db DBTX, clock clock.Clock) *ScheduleRepository {
	return &ScheduleRepository{db: db, clock: clock}
}

func (r *ScheduleRepository) Weekly(ctx context.Context, tenantID, employeeID uuid.UUID) (*schedule.Weekly, error) {
	rows, err := r.db.Query(ctx, `
		SELECT weekday, is_work_day, start_minute, end_minute
		FROM weekly_schedules
		WHERE tenant_id = $1 AND employee_id = $2
		ORDER BY weekday
	`, tenantID, employeeID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load weekly schedule", err)
	}
	defer rows.Close()

	var out []converter.WeeklyRow
	for rows.Next() {
		var row converter.WeeklyRow
		if err := rows.Scan(&row.Weekday, &row.IsWorkDay, &row.StartMinute, &row.EndMinute); err != nil {
			return nil, infra.WrapRepoErr("failed to scan weekly schedule", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate weekly schedule", err)
	}
	return converter.WeeklyToDomain(out), nil
}

func (r *ScheduleRepository) UpsertWeekly(ctx context.Context, tenantID, employeeID uuid.UUID, w *schedule.Weekly) error {
	now := r.clock.Now()
	for _, row := range converter.WeeklyToRows(w) {
		err := weeklyUpsert.Exec(ctx, r.db,
			[]any{tenantID, employeeID, row.Weekday},
			[]any{row.IsWorkDay, row.StartMinute, row.EndMinute, now},
		)
		if err != nil {
			return infra.WrapRepoErr("failed to upsert weekly schedule", err)
		}
	}
	return nil
}

func (r *ScheduleRepository) Exception(ctx context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) (*schedule.Exception, error) {
	var row converter.ExceptionRow
	err := r.db.QueryRow(ctx, `
		SELECT exception_date, exception_type, ranges, reason
		FROM schedule_exceptions
		WHERE tenant_id = $1 AND employee_id = $2 AND exception_date = $3
	`, tenantID, employeeID, pgconv.DateToPgtype(date.Time())).Scan(&row.Date, &row.Type, &row.Ranges, &row.Reason)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to load schedule exception", err)
	}
	exc, err := converter.ExceptionToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode exception ranges", err, infra.KindDBFailure)
	}
	return exc, nil
}

func (r *ScheduleRepository) UpsertException(ctx context.Context, tenantID, employeeID uuid.UUID, exc *schedule.Exception) error {
	ranges, err := converter.ExceptionRanges(exc)
	if err != nil {
		return infra.WrapRepoErr("failed to encode exception ranges", err, infra.KindDBFailure)
	}
	err = exceptionUpsert.Exec(ctx, r.db,
		[]any{tenantID, employeeID, pgconv.DateToPgtype(exc.Date().Time())},
		[]any{string(exc.Type()), ranges, exc.Reason(), r.clock.Now()},
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert schedule exception", err)
	}
	return nil
}

func (r *ScheduleRepository) DeleteException(ctx context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM schedule_exceptions
		WHERE tenant_id = $1 AND employee_id = $2 AND exception_date = $3
	`, tenantID, employeeID, pgconv.DateToPgtype(date.Time()))
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete schedule exception", err)
	}
	return tag.RowsAffected() > 0, nil
}
