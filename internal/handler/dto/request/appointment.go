package request

import (
	"strings"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type SlotsQuery struct {
	EmployeeID string `form:"employeeId" binding:"required,uuid"`
	ServiceID  string `form:"serviceId" binding:"required,uuid"`
	Date       string `form:"date" binding:"required"`
}

type ListAppointmentsQuery struct {
	EmployeeID string `form:"employeeId" binding:"required,uuid"`
	Date       string `form:"date" binding:"required"`
}

type CreateAppointmentRequest struct {
	BranchID   uuid.UUID `json:"branchId" binding:"required"`
	EmployeeID uuid.UUID `json:"employeeId" binding:"required"`
	ServiceID  uuid.UUID `json:"serviceId" binding:"required"`
	ClientID   uuid.UUID `json:"clientId" binding:"required"`
	Date       string    `json:"date" binding:"required"`
	Time       string    `json:"time" binding:"required"`
	Note       *string   `json:"note,omitempty" binding:"omitempty,max=500"`
}

func (r CreateAppointmentRequest) ToParams(tenantID uuid.UUID) (commands.ReserveParams, error) {
	date, start, err := ParseDateTime(r.Date, r.Time)
	if err != nil {
		return commands.ReserveParams{}, err
	}
	note := ""
	if r.Note != nil {
		note = strings.TrimSpace(*r.Note)
	}
	return commands.ReserveParams{
		TenantID:   tenantID,
		BranchID:   r.BranchID,
		EmployeeID: r.EmployeeID,
		ServiceID:  r.ServiceID,
		ClientID:   r.ClientID,
		Date:       date,
		Start:      start,
		Note:       note,
	}, nil
}

type RescheduleAppointmentRequest struct {
	EmployeeID *uuid.UUID `json:"employeeId,omitempty"`
	ServiceID  *uuid.UUID `json:"serviceId,omitempty"`
	Date       string     `json:"date" binding:"required"`
	Time       string     `json:"time" binding:"required"`
}

func (r RescheduleAppointmentRequest) ToParams(tenantID, appointmentID uuid.UUID) (commands.RescheduleParams, error) {
	date, start, err := ParseDateTime(r.Date, r.Time)
	if err != nil {
		return commands.RescheduleParams{}, err
	}
	return commands.RescheduleParams{
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		EmployeeID:    r.EmployeeID,
		ServiceID:     r.ServiceID,
		Date:          date,
		Start:         start,
	}, nil
}

// ParseDate parses YYYY-MM-DD, marking failures as validation errors.
func ParseDate(raw string) (schedule.Date, error) {
	d, err := schedule.ParseDate(strings.TrimSpace(raw))
	if err != nil {
		return schedule.Date{}, errs.Mark(err, errs.ErrValidation)
	}
	return d, nil
}

func ParseDateTime(rawDate, rawTime string) (schedule.Date, schedule.Minute, error) {
	date, err := ParseDate(rawDate)
	if err != nil {
		return schedule.Date{}, 0, err
	}
	start, err := schedule.ParseMinute(strings.TrimSpace(rawTime))
	if err != nil {
		return schedule.Date{}, 0, errs.Mark(err, errs.ErrValidation)
	}
	return date, start, nil
}
