package shared

import (
	"context"

	"booking-core/internal/domain/catalog"
	"booking-core/internal/domain/schedule"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/pkg/errs"

	"github.com/google/uuid"
)

// Calendar is the resolved availability of one employee day.
type Calendar struct {
	Weekly    *schedule.Weekly
	Exception *schedule.Exception
	Windows   []schedule.Window
	Occupied  []schedule.Window
}

// LoadCalendar resolves windows and reads the ledger for key. exclude skips one appointment,
// used when an appointment is moved within its own day.
func LoadCalendar(ctx context.Context, tx Tx, key CalendarKey, exclude uuid.UUID) (*Calendar, error) {
	weekly, err := tx.Schedules().Weekly(ctx, key.TenantID, key.EmployeeID)
	if err != nil {
		return nil, MapRepoErr(err)
	}
	exc, err := tx.Schedules().Exception(ctx, key.TenantID, key.EmployeeID, key.Date)
	if err != nil {
		return nil, MapRepoErr(err)
	}
	occupied, err := tx.Appointments().Occupied(ctx, key, exclude)
	if err != nil {
		return nil, MapRepoErr(err)
	}
	return &Calendar{
		Weekly:    weekly,
		Exception: exc,
		Windows:   schedule.Resolve(weekly, exc, key.Date),
		Occupied:  schedule.Normalize(occupied),
	}, nil
}

// BookingTarget is the validated (employee, service, branch) triple of a booking request.
type BookingTarget struct {
	Employee *catalog.Employee
	Service  *catalog.Service
	Branch   *catalog.Branch
}

func LoadBookingTarget(ctx context.Context, tx Tx, tenantID, employeeID, serviceID uuid.UUID) (*BookingTarget, error) {
	employee, err := tx.Catalog().Employee(ctx, tenantID, employeeID)
	if err != nil {
		return nil, errs.Wrap(MapRepoErr(err), "employee")
	}
	service, err := tx.Catalog().Service(ctx, tenantID, serviceID)
	if err != nil {
		return nil, errs.Wrap(MapRepoErr(err), "service")
	}
	if err := service.Bookable(); err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	if err := employee.CanPerform(service.ID()); err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	branch, err := tx.Catalog().Branch(ctx, tenantID, employee.BranchID())
	if err != nil {
		return nil, errs.Wrap(MapRepoErr(err), "branch")
	}
	return &BookingTarget{Employee: employee, Service: service, Branch: branch}, nil
}

// LoadSettings returns the stored settings of tenantID or the deployment defaults.
func LoadSettings(ctx context.Context, tx Tx, defaults tenant.Defaults, tenantID uuid.UUID) (tenant.Settings, error) {
	stored, err := tx.Tenants().Settings(ctx, tenantID)
	if err != nil {
		return tenant.Settings{}, MapRepoErr(err)
	}
	return defaults.Resolve(stored), nil
}
