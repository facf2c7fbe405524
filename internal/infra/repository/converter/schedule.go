package converter

import (
	"encoding/json"
	"time"

	"booking-core/internal/domain/schedule"
)

type WeeklyRow struct {
	Weekday     int16
	IsWorkDay   bool
	StartMinute int32
	EndMinute   int32
}

func WeeklyToDomain(rows []WeeklyRow) *schedule.Weekly {
	if len(rows) == 0 {
		return nil
	}
	entries := make([]schedule.DayEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, schedule.DayEntry{
			Weekday:   time.Weekday(r.Weekday),
			IsWorkDay: r.IsWorkDay,
			Start:     schedule.Minute(r.StartMinute),
			End:       schedule.Minute(r.EndMinute),
		})
	}
	return schedule.ReconstructWeekly(entries)
}

func WeeklyToRows(w *schedule.Weekly) []WeeklyRow {
	entries := w.Entries()
	rows := make([]WeeklyRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, WeeklyRow{
			// #nosec G115 -- weekday is 0..6
			Weekday:   int16(e.Weekday),
			IsWorkDay: e.IsWorkDay,
			// #nosec G115 -- minutes of day fit in int32
			StartMinute: int32(e.Start),
			// #nosec G115 -- minutes of day fit in int32
			EndMinute: int32(e.End),
		})
	}
	return rows
}

type rangeJSON struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type ExceptionRow struct {
	Date   time.Time
	Type   string
	Ranges []byte
	Reason string
}

func ExceptionToDomain(r ExceptionRow) (*schedule.Exception, error) {
	var raw []rangeJSON
	if len(r.Ranges) > 0 {
		if err := json.Unmarshal(r.Ranges, &raw); err != nil {
			return nil, err
		}
	}
	ranges := make([]schedule.Window, 0, len(raw))
	for _, rr := range raw {
		ranges = append(ranges, schedule.Window{Start: schedule.Minute(rr.Start), End: schedule.Minute(rr.End)})
	}
	return schedule.ReconstructException(DateToDomain(r.Date), schedule.ExceptionType(r.Type), ranges, r.Reason), nil
}

func ExceptionRanges(exc *schedule.Exception) ([]byte, error) {
	raw := make([]rangeJSON, 0)
	for _, w := range exc.Ranges() {
		raw = append(raw, rangeJSON{Start: int(w.Start), End: int(w.End)})
	}
	return json.Marshal(raw)
}
