//go:build unit || e2e

package builder

import (
	"booking-core/internal/domain/schedule"
	reqdto "booking-core/internal/handler/dto/request"
	"booking-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type AppointmentBuilder struct {
	TenantID   uuid.UUID
	BranchID   uuid.UUID
	EmployeeID uuid.UUID
	ServiceID  uuid.UUID
	ClientID   uuid.UUID
	Date       schedule.Date
	Start      schedule.Minute
	Note       string
}

func NewAppointmentBuilder(date schedule.Date) *AppointmentBuilder {
	return &AppointmentBuilder{
		TenantID:   uuid.New(),
		BranchID:   uuid.New(),
		EmployeeID: uuid.New(),
		ServiceID:  uuid.New(),
		ClientID:   uuid.New(),
		Date:       date,
		Start:      9 * 60,
	}
}

func (b *AppointmentBuilder) With(mutate func(*AppointmentBuilder)) *AppointmentBuilder {
	mutate(b)
	return b
}

func (b *AppointmentBuilder) At(start schedule.Minute) *AppointmentBuilder {
	b.Start = start
	return b
}

// Build methods
func (b *AppointmentBuilder) BuildParams() commands.ReserveParams {
	return commands.ReserveParams{
		TenantID:   b.TenantID,
		BranchID:   b.BranchID,
		EmployeeID: b.EmployeeID,
		ServiceID:  b.ServiceID,
		ClientID:   b.ClientID,
		Date:       b.Date,
		Start:      b.Start,
		Note:       b.Note,
	}
}

func (b *AppointmentBuilder) BuildCreateRequestDTO() reqdto.CreateAppointmentRequest {
	req := reqdto.CreateAppointmentRequest{
		BranchID:   b.BranchID,
		EmployeeID: b.EmployeeID,
		ServiceID:  b.ServiceID,
		ClientID:   b.ClientID,
		Date:       b.Date.String(),
		Time:       b.Start.String(),
	}
	if b.Note != "" {
		note := b.Note
		req.Note = &note
	}
	return req
}

func (b *AppointmentBuilder) BuildRescheduleRequestDTO(date schedule.Date, start schedule.Minute) reqdto.RescheduleAppointmentRequest {
	return reqdto.RescheduleAppointmentRequest{
		Date: date.String(),
		Time: start.String(),
	}
}
