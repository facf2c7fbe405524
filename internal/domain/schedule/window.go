package schedule

import (
	"errors"
	"sort"
)

var ErrInvalidWindow = errors.New("window start must be before end and within the day")

// Window is a half-open interval [Start, End) of local minutes.
type Window struct {
	Start Minute
	End   Minute
}

func NewWindow(start, end Minute) (Window, error) {
	w := Window{Start: start, End: end}
	if !w.Valid() {
		return Window{}, ErrInvalidWindow
	}
	return w, nil
}

func (w Window) Valid() bool {
	return w.Start.Valid() && w.End.Valid() && w.Start < w.End
}

func (w Window) Len() int {
	return int(w.End - w.Start)
}

// Overlaps uses half-open semantics: touching windows do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

func (w Window) Contains(o Window) bool {
	return w.Start <= o.Start && o.End <= w.End
}

// Normalize sorts windows and merges the ones that overlap or touch.
// Invalid windows are dropped. The input slice is not modified.
func Normalize(ws []Window) []Window {
	valid := make([]Window, 0, len(ws))
	for _, w := range ws {
		if w.Valid() {
			valid = append(valid, w)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Start == valid[j].Start {
			return valid[i].End < valid[j].End
		}
		return valid[i].Start < valid[j].Start
	})

	merged := []Window{valid[0]}
	for _, w := range valid[1:] {
		last := &merged[len(merged)-1]
		if w.Start <= last.End {
			if w.End > last.End {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}
