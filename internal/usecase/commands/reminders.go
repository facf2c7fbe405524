package commands

import (
	"context"

	"booking-core/internal/domain/reminder"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReminderCommands interface {
	// Requeue makes a FAILED reminder due again on the next sweep.
	Requeue(ctx context.Context, tenantID, reminderID uuid.UUID) (*queries.ReminderView, error)
}

type reminderCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReminderCommands(uow shared.UnitOfWork, clock clock.Clock) ReminderCommands {
	return &reminderCommandsImpl{uow: uow, clock: clock}
}

func (c *reminderCommandsImpl) Requeue(ctx context.Context, tenantID, reminderID uuid.UUID) (*queries.ReminderView, error) {
	return shared.WithinResult(ctx, c.uow, func(ctx context.Context, tx shared.Tx) (*queries.ReminderView, error) {
		r, err := tx.Reminders().FindByID(ctx, tenantID, reminderID)
		if err != nil {
			return nil, errs.Wrap(shared.MapRepoErr(err), "reminder")
		}
		if err := r.Requeue(c.clock.Now()); err != nil {
			if errs.Is(err, reminder.ErrNotFailed) {
				return nil, errs.Mark(err, errs.ErrValidation)
			}
			return nil, err
		}
		if err := tx.Reminders().Save(ctx, r); err != nil {
			return nil, shared.MapRepoErr(err)
		}
		return queries.ToReminderView(r), nil
	})
}
