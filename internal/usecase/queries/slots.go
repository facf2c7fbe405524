package queries

import (
	"context"
	"log/slog"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/slot"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type SlotQueries interface {
	// Available lists bookable start times. The result may be served from cache and is advisory only.
	Available(ctx context.Context, tenantID, employeeID, serviceID uuid.UUID, date schedule.Date) (*SlotsView, error)
	Availability(ctx context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) (*AvailabilityView, error)
}

type slotQueriesImpl struct {
	uow      shared.UnitOfWork
	cache    shared.SlotCache
	defaults tenant.Defaults
	clock    clock.Clock
}

func NewSlotQueries(uow shared.UnitOfWork, cache shared.SlotCache, defaults tenant.Defaults, clock clock.Clock) SlotQueries {
	return &slotQueriesImpl{uow: uow, cache: cache, defaults: defaults, clock: clock}
}

func (q *slotQueriesImpl) Available(
	ctx context.Context,
	tenantID, employeeID, serviceID uuid.UUID,
	date schedule.Date,
) (*SlotsView, error) {
	if date.IsZero() {
		return nil, errs.Validationf("date is required")
	}

	return shared.ReadResult(ctx, q.uow, func(ctx context.Context, tx shared.Tx) (*SlotsView, error) {
		target, err := shared.LoadBookingTarget(ctx, tx, tenantID, employeeID, serviceID)
		if err != nil {
			return nil, err
		}
		settings, err := shared.LoadSettings(ctx, tx, q.defaults, tenantID)
		if err != nil {
			return nil, err
		}

		view := &SlotsView{
			Date:       date,
			EmployeeID: employeeID,
			ServiceID:  serviceID,
			Step:       settings.SlotStepMinutes,
		}
		// Lead-time output depends on the current time, so it is never cached.
		cacheable := settings.MinLeadTimeMinutes == nil
		cacheKey := shared.SlotCacheKey{
			TenantID:   tenantID,
			EmployeeID: employeeID,
			ServiceID:  serviceID,
			Date:       date,
			Step:       settings.SlotStepMinutes,
		}
		// The lookup precedes the ledger read, so its version predates any write the read may miss.
		var cached shared.CachedSlots
		if cacheable {
			cached, err = q.cache.Get(ctx, cacheKey)
			if err != nil {
				cacheable = false
				slog.Warn("slot cache read failed", "error", err, "employee_id", employeeID.String())
			} else if cached.Hit {
				view.Slots = cached.Slots
				view.Cached = true
				return view, nil
			}
		}

		cal, err := shared.LoadCalendar(ctx, tx, shared.CalendarKey{TenantID: tenantID, EmployeeID: employeeID, Date: date}, uuid.Nil)
		if err != nil {
			return nil, err
		}
		policy := settings.SlotPolicy(q.clock.Now(), target.Branch.Location(), date)
		slots, err := slot.Generate(cal.Windows, cal.Occupied, target.Service.DurationMinutes(), settings.SlotStepMinutes, policy)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrValidation)
		}
		view.Slots = slots

		if cacheable {
			if err := q.cache.Set(ctx, cacheKey, cached.Version, slots); err != nil {
				slog.Warn("slot cache write failed", "error", err, "employee_id", employeeID.String())
			}
		}
		return view, nil
	})
}

func (q *slotQueriesImpl) Availability(
	ctx context.Context,
	tenantID, employeeID uuid.UUID,
	date schedule.Date,
) (*AvailabilityView, error) {
	if date.IsZero() {
		return nil, errs.Validationf("date is required")
	}

	return shared.ReadResult(ctx, q.uow, func(ctx context.Context, tx shared.Tx) (*AvailabilityView, error) {
		if _, err := tx.Catalog().Employee(ctx, tenantID, employeeID); err != nil {
			return nil, errs.Wrap(shared.MapRepoErr(err), "employee")
		}
		cal, err := shared.LoadCalendar(ctx, tx, shared.CalendarKey{TenantID: tenantID, EmployeeID: employeeID, Date: date}, uuid.Nil)
		if err != nil {
			return nil, err
		}

		view := &AvailabilityView{
			Date:       date,
			EmployeeID: employeeID,
			Source:     SourceNone,
			Windows:    cal.Windows,
			Occupied:   cal.Occupied,
		}
		switch {
		case cal.Exception != nil:
			view.Source = SourceException
			view.ExceptionType = cal.Exception.Type()
		case cal.Weekly != nil:
			view.Source = SourceWeekly
		}
		return view, nil
	})
}
