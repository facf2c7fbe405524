package commands

import (
	"context"
	"log/slog"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type ExceptionParams struct {
	TenantID   uuid.UUID
	EmployeeID uuid.UUID
	Date       schedule.Date
	Type       schedule.ExceptionType
	Ranges     []schedule.Window
	Reason     string
}

type ScheduleCommands interface {
	// UpsertWeekly replaces the whole week. Existing appointments are left in place.
	UpsertWeekly(ctx context.Context, tenantID, employeeID uuid.UUID, entries []schedule.DayEntry) (*schedule.Weekly, error)
	// UpsertException stores the single override of (employee, date); repeating it is a no-op.
	UpsertException(ctx context.Context, p ExceptionParams) (*schedule.Exception, error)
	// DeleteException succeeds whether or not an override existed.
	DeleteException(ctx context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) error
}

type scheduleCommandsImpl struct {
	uow   shared.UnitOfWork
	cache shared.SlotCache
}

func NewScheduleCommands(uow shared.UnitOfWork, cache shared.SlotCache) ScheduleCommands {
	return &scheduleCommandsImpl{uow: uow, cache: cache}
}

func (s *scheduleCommandsImpl) UpsertWeekly(
	ctx context.Context,
	tenantID, employeeID uuid.UUID,
	entries []schedule.DayEntry,
) (*schedule.Weekly, error) {
	weekly, err := schedule.NewWeekly(entries)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := requireEmployee(ctx, tx, tenantID, employeeID); err != nil {
			return err
		}
		return shared.MapRepoErr(tx.Schedules().UpsertWeekly(ctx, tenantID, employeeID, weekly))
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID, employeeID)
	return weekly, nil
}

func (s *scheduleCommandsImpl) UpsertException(ctx context.Context, p ExceptionParams) (*schedule.Exception, error) {
	exc, err := schedule.NewException(p.Date, p.Type, p.Ranges, p.Reason)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := requireEmployee(ctx, tx, p.TenantID, p.EmployeeID); err != nil {
			return err
		}
		key := shared.CalendarKey{TenantID: p.TenantID, EmployeeID: p.EmployeeID, Date: p.Date}
		if err := tx.Appointments().LockCalendars(ctx, key); err != nil {
			return shared.MapRepoErr(err)
		}
		return shared.MapRepoErr(tx.Schedules().UpsertException(ctx, p.TenantID, p.EmployeeID, exc))
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, p.TenantID, p.EmployeeID)
	return exc, nil
}

func (s *scheduleCommandsImpl) DeleteException(ctx context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) error {
	if date.IsZero() {
		return errs.Validationf("date is required")
	}

	var removed bool
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := requireEmployee(ctx, tx, tenantID, employeeID); err != nil {
			return err
		}
		key := shared.CalendarKey{TenantID: tenantID, EmployeeID: employeeID, Date: date}
		if err := tx.Appointments().LockCalendars(ctx, key); err != nil {
			return shared.MapRepoErr(err)
		}
		var err error
		removed, err = tx.Schedules().DeleteException(ctx, tenantID, employeeID, date)
		return shared.MapRepoErr(err)
	})
	if err != nil {
		return err
	}

	if removed {
		s.invalidate(ctx, tenantID, employeeID)
	}
	return nil
}

func (s *scheduleCommandsImpl) invalidate(ctx context.Context, tenantID, employeeID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, tenantID, employeeID); err != nil {
		slog.Warn("slot cache invalidation failed", "error", err, "employee_id", employeeID.String())
	}
}

func requireEmployee(ctx context.Context, tx shared.Tx, tenantID, employeeID uuid.UUID) error {
	if _, err := tx.Catalog().Employee(ctx, tenantID, employeeID); err != nil {
		return errs.Wrap(shared.MapRepoErr(err), "employee")
	}
	return nil
}
