package converter

import (
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/schedule"

	"github.com/google/uuid"
)

type AppointmentRow struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	BranchID    uuid.UUID
	ServiceID   uuid.UUID
	EmployeeID  uuid.UUID
	ClientID    uuid.UUID
	Date        time.Time
	StartMinute int32
	EndMinute   int32
	StartAt     time.Time
	EndAt       time.Time
	Status      string
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ScanTargets lists the destinations in AppointmentColumns order.
func (r *AppointmentRow) ScanTargets() []any {
	return []any{
		&r.ID, &r.TenantID, &r.BranchID, &r.ServiceID, &r.EmployeeID, &r.ClientID,
		&r.Date, &r.StartMinute, &r.EndMinute, &r.StartAt, &r.EndAt,
		&r.Status, &r.Note, &r.CreatedAt, &r.UpdatedAt,
	}
}

const AppointmentColumns = `id, tenant_id, branch_id, service_id, employee_id, client_id,
	appointment_date, start_minute, end_minute, start_at, end_at,
	status, note, created_at, updated_at`

func AppointmentToRow(a *appointment.Appointment) AppointmentRow {
	iv := a.Interval()
	return AppointmentRow{
		ID:         a.ID(),
		TenantID:   a.TenantID(),
		BranchID:   a.BranchID(),
		ServiceID:  a.ServiceID(),
		EmployeeID: a.EmployeeID(),
		ClientID:   a.ClientID(),
		Date:       a.Date().Time(),
		// #nosec G115 -- minutes of day fit in int32
		StartMinute: int32(iv.Start),
		// #nosec G115 -- minutes of day fit in int32
		EndMinute: int32(iv.End),
		StartAt:   a.StartAt(),
		EndAt:     a.EndAt(),
		Status:    a.Status().String(),
		Note:      a.Note(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}

func AppointmentToDomain(r AppointmentRow) *appointment.Appointment {
	return appointment.ReconstructAppointment(
		r.ID, r.TenantID, r.BranchID, r.ServiceID, r.EmployeeID, r.ClientID,
		DateToDomain(r.Date),
		schedule.Window{Start: schedule.Minute(r.StartMinute), End: schedule.Minute(r.EndMinute)},
		r.StartAt,
		appointment.Status(r.Status),
		r.Note,
		r.CreatedAt, r.UpdatedAt,
	)
}

// DateToDomain drops the zone pgx attaches to DATE values.
func DateToDomain(t time.Time) schedule.Date {
	return schedule.NewDate(t.Year(), t.Month(), t.Day())
}
