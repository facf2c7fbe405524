package slot

import (
	"errors"

	"booking-core/internal/domain/schedule"
)

var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidStep     = errors.New("step must be positive")
)

// Policy narrows which candidates are offered. The zero value applies no restriction.
type Policy struct {
	// Earliest is the first minute a slot may start at, when HasEarliest is set.
	Earliest    schedule.Minute
	HasEarliest bool
}

func NotBefore(m schedule.Minute) Policy {
	return Policy{Earliest: m, HasEarliest: true}
}

// Generate walks each window in step increments and returns every start t with
// t+duration inside the window and no overlap with occupied. Windows must be normalized.
// The result is ascending and free of duplicates.
func Generate(windows, occupied []schedule.Window, duration, step int, policy Policy) ([]schedule.Minute, error) {
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if step <= 0 {
		return nil, ErrInvalidStep
	}

	var slots []schedule.Minute
	last := schedule.Minute(-1)
	for _, w := range windows {
		for t := w.Start; t+schedule.Minute(duration) <= w.End; t += schedule.Minute(step) {
			if t <= last {
				continue
			}
			if !allowed(t, policy) {
				continue
			}
			if overlapsAny(schedule.Window{Start: t, End: t + schedule.Minute(duration)}, occupied) {
				continue
			}
			slots = append(slots, t)
			last = t
		}
	}
	return slots, nil
}

// Fits reports whether [start, start+duration) lies inside one window, respects policy
// and intersects nothing in occupied. Step alignment is not required.
func Fits(windows, occupied []schedule.Window, start schedule.Minute, duration int, policy Policy) bool {
	if duration <= 0 || !allowed(start, policy) {
		return false
	}
	candidate := schedule.Window{Start: start, End: start + schedule.Minute(duration)}
	if !candidate.Valid() {
		return false
	}
	inside := false
	for _, w := range windows {
		if w.Contains(candidate) {
			inside = true
			break
		}
	}
	return inside && !overlapsAny(candidate, occupied)
}

func allowed(t schedule.Minute, p Policy) bool {
	return !p.HasEarliest || t >= p.Earliest
}

func overlapsAny(c schedule.Window, occupied []schedule.Window) bool {
	for _, o := range occupied {
		if c.Overlaps(o) {
			return true
		}
	}
	return false
}
