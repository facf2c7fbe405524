package schedule

import (
	"errors"
	"fmt"
)

type ExceptionType string

const (
	ExceptionFullDayOff   ExceptionType = "FULL_DAY_OFF"
	ExceptionCustomRanges ExceptionType = "CUSTOM_RANGES"
)

func (t ExceptionType) IsValid() bool {
	switch t {
	case ExceptionFullDayOff, ExceptionCustomRanges:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidExceptionType = errors.New("invalid exception type")
	ErrMissingRanges        = errors.New("custom ranges exception requires at least one range")
	ErrUnexpectedRanges     = errors.New("full day off exception must not carry ranges")
)

// Exception overrides the weekly entry for a single date.
type Exception struct {
	date   Date
	typ    ExceptionType
	ranges []Window
	reason string
}

func NewException(date Date, typ ExceptionType, ranges []Window, reason string) (*Exception, error) {
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	if !typ.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExceptionType, typ)
	}
	switch typ {
	case ExceptionFullDayOff:
		if len(ranges) > 0 {
			return nil, ErrUnexpectedRanges
		}
	case ExceptionCustomRanges:
		if len(ranges) == 0 {
			return nil, ErrMissingRanges
		}
		for _, r := range ranges {
			if !r.Valid() {
				return nil, fmt.Errorf("range %s-%s: %w", r.Start, r.End, ErrInvalidWindow)
			}
		}
	}
	return &Exception{
		date:   date,
		typ:    typ,
		ranges: Normalize(ranges),
		reason: reason,
	}, nil
}

func ReconstructException(date Date, typ ExceptionType, ranges []Window, reason string) *Exception {
	return &Exception{date: date, typ: typ, ranges: ranges, reason: reason}
}

func (e *Exception) Date() Date          { return e.date }
func (e *Exception) Type() ExceptionType { return e.typ }
func (e *Exception) Reason() string      { return e.reason }

func (e *Exception) Ranges() []Window {
	out := make([]Window, len(e.ranges))
	copy(out, e.ranges)
	return out
}
