package errs

import "errors"

// Sentinel errors shared by the usecase and handler layers.
// Lower layers attach them with Mark so callers can branch with errors.Is.
var (
	// Input rejected before any ledger read
	ErrValidation = errors.New("validation error")

	ErrNotFound = errors.New("not found")

	// Requested interval intersects an existing non-cancelled appointment
	ErrSlotTaken = errors.New("slot taken")

	// Calendar lock or store could not be reached within the configured wait
	ErrTransientUnavailable = errors.New("transient unavailable")

	// Reminder path only; stored on the reminder, never returned to booking callers
	ErrDeliveryFailed = errors.New("delivery failed")
)

// Code is the stable machine-readable name of a sentinel, used in API error bodies.
func Code(err error) string {
	switch {
	case Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case Is(err, ErrNotFound):
		return "NOT_FOUND"
	case Is(err, ErrSlotTaken):
		return "SLOT_TAKEN"
	case Is(err, ErrTransientUnavailable):
		return "TRANSIENT_UNAVAILABLE"
	case Is(err, ErrDeliveryFailed):
		return "DELIVERY_FAILED"
	default:
		return "INTERNAL"
	}
}
