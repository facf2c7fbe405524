package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrIncompleteWeek = errors.New("weekly schedule must contain exactly one entry per weekday")
	ErrDuplicateDay   = errors.New("weekly schedule contains a weekday twice")
)

// DayEntry is the recurring working window for one weekday.
// Start and End are ignored when IsWorkDay is false.
type DayEntry struct {
	Weekday   time.Weekday
	Start     Minute
	End       Minute
	IsWorkDay bool
}

func (e DayEntry) Window() (Window, bool) {
	if !e.IsWorkDay {
		return Window{}, false
	}
	return Window{Start: e.Start, End: e.End}, true
}

// Weekly holds exactly seven entries indexed by time.Weekday (0 = Sunday).
type Weekly struct {
	days [7]DayEntry
}

func NewWeekly(entries []DayEntry) (*Weekly, error) {
	if len(entries) != 7 {
		return nil, ErrIncompleteWeek
	}
	var seen [7]bool
	w := &Weekly{}
	for _, e := range entries {
		if e.Weekday < time.Sunday || e.Weekday > time.Saturday {
			return nil, fmt.Errorf("%w: weekday %d", ErrIncompleteWeek, e.Weekday)
		}
		if seen[e.Weekday] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDay, e.Weekday)
		}
		if e.IsWorkDay {
			if _, err := NewWindow(e.Start, e.End); err != nil {
				return nil, fmt.Errorf("%s: %w", e.Weekday, err)
			}
		} else {
			e.Start, e.End = 0, 0
		}
		seen[e.Weekday] = true
		w.days[e.Weekday] = e
	}
	return w, nil
}

// ReconstructWeekly rebuilds a schedule from stored rows. Missing weekdays are non-working.
func ReconstructWeekly(entries []DayEntry) *Weekly {
	w := &Weekly{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		w.days[d] = DayEntry{Weekday: d}
	}
	for _, e := range entries {
		if e.Weekday >= time.Sunday && e.Weekday <= time.Saturday {
			w.days[e.Weekday] = e
		}
	}
	return w
}

func (w *Weekly) Day(d time.Weekday) DayEntry {
	return w.days[d]
}

func (w *Weekly) Entries() []DayEntry {
	out := make([]DayEntry, 7)
	copy(out, w.days[:])
	return out
}
