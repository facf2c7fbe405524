package request

import (
	"time"

	"booking-core/internal/domain/schedule"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/commands"

	"github.com/google/uuid"
)

type AvailabilityQuery struct {
	Date string `form:"date" binding:"required"`
}

type DayEntryRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsWorkDay bool   `json:"isWorkDay"`
}

type WeeklyScheduleRequest struct {
	Days []DayEntryRequest `json:"days" binding:"required,len=7,dive"`
}

func (r WeeklyScheduleRequest) ToEntries() ([]schedule.DayEntry, error) {
	entries := make([]schedule.DayEntry, 0, len(r.Days))
	for _, d := range r.Days {
		entry := schedule.DayEntry{Weekday: time.Weekday(*d.DayOfWeek), IsWorkDay: d.IsWorkDay}
		if d.IsWorkDay {
			w, err := parseRange(d.StartTime, d.EndTime)
			if err != nil {
				return nil, err
			}
			entry.Start, entry.End = w.Start, w.End
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type RangeRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type ExceptionRequest struct {
	Type   string         `json:"type" binding:"required,oneof=FULL_DAY_OFF CUSTOM_RANGES"`
	Ranges []RangeRequest `json:"ranges" binding:"omitempty,dive"`
	Reason string         `json:"reason" binding:"max=500"`
}

func (r ExceptionRequest) ToParams(tenantID, employeeID uuid.UUID, date schedule.Date) (commands.ExceptionParams, error) {
	ranges := make([]schedule.Window, 0, len(r.Ranges))
	for _, rr := range r.Ranges {
		w, err := parseRange(rr.Start, rr.End)
		if err != nil {
			return commands.ExceptionParams{}, err
		}
		ranges = append(ranges, w)
	}
	return commands.ExceptionParams{
		TenantID:   tenantID,
		EmployeeID: employeeID,
		Date:       date,
		Type:       schedule.ExceptionType(r.Type),
		Ranges:     ranges,
		Reason:     r.Reason,
	}, nil
}

func parseRange(rawStart, rawEnd string) (schedule.Window, error) {
	start, err := schedule.ParseMinute(rawStart)
	if err != nil {
		return schedule.Window{}, errs.Mark(err, errs.ErrValidation)
	}
	end, err := schedule.ParseMinute(rawEnd)
	if err != nil {
		return schedule.Window{}, errs.Mark(err, errs.ErrValidation)
	}
	w, err := schedule.NewWindow(start, end)
	if err != nil {
		return schedule.Window{}, errs.Mark(errs.Wrapf(err, "%s-%s", rawStart, rawEnd), errs.ErrValidation)
	}
	return w, nil
}
