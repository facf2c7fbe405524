package shared

import (
	"booking-core/internal/infra"
	"booking-core/internal/pkg/errs"
)

// MapRepoErr attaches the usecase sentinel matching a repository error kind.
func MapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrNotFound)
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, errs.ErrSlotTaken)
	case infra.IsKind(err, infra.KindLockTimeout):
		return errs.Mark(err, errs.ErrTransientUnavailable)
	default:
		return err
	}
}

// IsExpected reports whether err is one of the client-facing outcomes.
func IsExpected(err error) bool {
	return errs.Is(err, errs.ErrValidation) ||
		errs.Is(err, errs.ErrNotFound) ||
		errs.Is(err, errs.ErrSlotTaken) ||
		errs.Is(err, errs.ErrTransientUnavailable)
}
