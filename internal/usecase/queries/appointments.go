package queries

import (
	"context"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type AppointmentQueries interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AppointmentView, error)
	// ListByEmployeeDate includes cancelled appointments, ordered by start.
	ListByEmployeeDate(ctx context.Context, tenantID, employeeID uuid.UUID, date schedule.Date) ([]*AppointmentView, error)
}

type appointmentQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewAppointmentQueries(uow shared.UnitOfWork) AppointmentQueries {
	return &appointmentQueriesImpl{uow: uow}
}

func (q *appointmentQueriesImpl) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AppointmentView, error) {
	return shared.ReadResult(ctx, q.uow, func(ctx context.Context, tx shared.Tx) (*AppointmentView, error) {
		a, err := tx.Appointments().FindByID(ctx, tenantID, id)
		if err != nil {
			return nil, errs.Wrap(shared.MapRepoErr(err), "appointment")
		}
		return ToAppointmentView(a), nil
	})
}

func (q *appointmentQueriesImpl) ListByEmployeeDate(
	ctx context.Context,
	tenantID, employeeID uuid.UUID,
	date schedule.Date,
) ([]*AppointmentView, error) {
	if employeeID == uuid.Nil {
		return nil, errs.Validationf("employeeId is required")
	}
	if date.IsZero() {
		return nil, errs.Validationf("date is required")
	}

	return shared.ReadResult(ctx, q.uow, func(ctx context.Context, tx shared.Tx) ([]*AppointmentView, error) {
		list, err := tx.Appointments().ListByCalendar(ctx, shared.CalendarKey{TenantID: tenantID, EmployeeID: employeeID, Date: date})
		if err != nil {
			return nil, shared.MapRepoErr(err)
		}
		views := make([]*AppointmentView, 0, len(list))
		for _, a := range list {
			views = append(views, ToAppointmentView(a))
		}
		return views, nil
	})
}
