package response

import (
	"time"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

func FromSlotsView(v *queries.SlotsView) *SlotsResponse {
	return &SlotsResponse{Date: v.Date.String(), Slots: minutes(v.Slots)}
}

type AppointmentResponse struct {
	ID         uuid.UUID `json:"id"`
	BranchID   uuid.UUID `json:"branchId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	EmployeeID uuid.UUID `json:"employeeId"`
	ClientID   uuid.UUID `json:"clientId"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	EndTime    string    `json:"endTime"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func FromAppointmentView(v *queries.AppointmentView) *AppointmentResponse {
	return &AppointmentResponse{
		ID:         v.ID,
		BranchID:   v.BranchID,
		ServiceID:  v.ServiceID,
		EmployeeID: v.EmployeeID,
		ClientID:   v.ClientID,
		Date:       v.Date.String(),
		Time:       v.Start.String(),
		EndTime:    v.End.String(),
		StartAt:    v.StartAt,
		EndAt:      v.EndAt,
		Status:     string(v.Status),
		Note:       v.Note,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func FromAppointmentViews(vs []*queries.AppointmentView) []*AppointmentResponse {
	out := make([]*AppointmentResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, FromAppointmentView(v))
	}
	return out
}

type WindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func FromWindows(ws []schedule.Window) []WindowResponse {
	out := make([]WindowResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, WindowResponse{Start: w.Start.String(), End: w.End.String()})
	}
	return out
}

func minutes(ms []schedule.Minute) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.String())
	}
	return out
}
