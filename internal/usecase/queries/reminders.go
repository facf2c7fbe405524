package queries

import (
	"context"

	"booking-core/internal/domain/reminder"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	defaultReminderLimit = 50
	maxReminderLimit     = 500
)

type ReminderQueries interface {
	// List returns reminders in status, oldest scheduled first.
	List(ctx context.Context, tenantID uuid.UUID, status reminder.Status, limit int) ([]*ReminderView, error)
}

type reminderQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewReminderQueries(uow shared.UnitOfWork) ReminderQueries {
	return &reminderQueriesImpl{uow: uow}
}

func (q *reminderQueriesImpl) List(ctx context.Context, tenantID uuid.UUID, status reminder.Status, limit int) ([]*ReminderView, error) {
	if status == "" {
		status = reminder.StatusFailed
	}
	if !status.IsValid() {
		return nil, errs.Validationf("unknown reminder status %q", status)
	}
	if limit <= 0 {
		limit = defaultReminderLimit
	}
	if limit > maxReminderLimit {
		limit = maxReminderLimit
	}

	return shared.ReadResult(ctx, q.uow, func(ctx context.Context, tx shared.Tx) ([]*ReminderView, error) {
		list, err := tx.Reminders().ListByStatus(ctx, tenantID, status, limit)
		if err != nil {
			return nil, shared.MapRepoErr(err)
		}
		views := make([]*ReminderView, 0, len(list))
		for _, r := range list {
			views = append(views, ToReminderView(r))
		}
		return views, nil
	})
}
