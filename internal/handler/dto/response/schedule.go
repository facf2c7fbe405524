package response

import (
	"booking-core/internal/domain/schedule"
	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type AvailabilityResponse struct {
	Date          string           `json:"date"`
	EmployeeID    uuid.UUID        `json:"employeeId"`
	Source        string           `json:"source"`
	ExceptionType string           `json:"exceptionType,omitempty"`
	Windows       []WindowResponse `json:"windows"`
	Occupied      []WindowResponse `json:"occupied"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		Date:          v.Date.String(),
		EmployeeID:    v.EmployeeID,
		Source:        string(v.Source),
		ExceptionType: string(v.ExceptionType),
		Windows:       FromWindows(v.Windows),
		Occupied:      FromWindows(v.Occupied),
	}
}

type DayEntryResponse struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	IsWorkDay bool   `json:"isWorkDay"`
}

type WeeklyScheduleResponse struct {
	Days []DayEntryResponse `json:"days"`
}

func FromWeekly(w *schedule.Weekly) *WeeklyScheduleResponse {
	resp := &WeeklyScheduleResponse{Days: make([]DayEntryResponse, 0, 7)}
	for _, e := range w.Entries() {
		d := DayEntryResponse{DayOfWeek: int(e.Weekday), IsWorkDay: e.IsWorkDay}
		if e.IsWorkDay {
			d.StartTime, d.EndTime = e.Start.String(), e.End.String()
		}
		resp.Days = append(resp.Days, d)
	}
	return resp
}

type ExceptionResponse struct {
	Date   string           `json:"date"`
	Type   string           `json:"type"`
	Ranges []WindowResponse `json:"ranges"`
	Reason string           `json:"reason,omitempty"`
}

func FromException(e *schedule.Exception) *ExceptionResponse {
	return &ExceptionResponse{
		Date:   e.Date().String(),
		Type:   string(e.Type()),
		Ranges: FromWindows(e.Ranges()),
		Reason: e.Reason(),
	}
}
