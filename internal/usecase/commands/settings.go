package commands

import (
	"context"
	"time"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/pkg/patch"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// SettingsPatch changes only the non-nil fields. ClearMinLeadTime turns the lead time policy off.
type SettingsPatch struct {
	SlotStepMinutes        *int
	MinLeadTimeMinutes     *int
	ClearMinLeadTime       bool
	ReminderOffsetsMinutes *[]int
	ReminderChannels       *[]reminder.Channel
	DefaultStatus          *appointment.Status
}

type SettingsCommands interface {
	Upsert(ctx context.Context, tenantID uuid.UUID, p SettingsPatch) (tenant.Settings, error)
}

type settingsCommandsImpl struct {
	uow      shared.UnitOfWork
	defaults tenant.Defaults
}

func NewSettingsCommands(uow shared.UnitOfWork, defaults tenant.Defaults) SettingsCommands {
	return &settingsCommandsImpl{uow: uow, defaults: defaults}
}

func (s *settingsCommandsImpl) Upsert(ctx context.Context, tenantID uuid.UUID, p SettingsPatch) (tenant.Settings, error) {
	if p.ClearMinLeadTime && p.MinLeadTimeMinutes != nil {
		return tenant.Settings{}, errs.Validationf("minLeadTimeMinutes cannot be set and cleared at once")
	}

	return shared.WithinResult(ctx, s.uow, func(ctx context.Context, tx shared.Tx) (tenant.Settings, error) {
		current, err := shared.LoadSettings(ctx, tx, s.defaults, tenantID)
		if err != nil {
			return tenant.Settings{}, err
		}
		// Deep copy so patched slices never alias the deployment defaults.
		var next tenant.Settings
		if err := copier.CopyWithOption(&next, &current, copier.Option{DeepCopy: true}); err != nil {
			return tenant.Settings{}, errs.Wrap(err, "copy settings")
		}

		next.SlotStepMinutes = patch.Coalesce(p.SlotStepMinutes, next.SlotStepMinutes)
		next.DefaultStatus = patch.Coalesce(p.DefaultStatus, next.DefaultStatus)
		next.ReminderChannels = patch.Coalesce(p.ReminderChannels, next.ReminderChannels)
		next.MinLeadTimeMinutes = patch.Nullable(p.MinLeadTimeMinutes, p.ClearMinLeadTime, next.MinLeadTimeMinutes)
		next.ReminderOffsets = patch.MapSlice(p.ReminderOffsetsMinutes, next.ReminderOffsets, func(m int) time.Duration {
			return time.Duration(m) * time.Minute
		})

		if err := next.Validate(); err != nil {
			return tenant.Settings{}, errs.Mark(err, errs.ErrValidation)
		}
		if err := tx.Tenants().UpsertSettings(ctx, tenantID, next); err != nil {
			return tenant.Settings{}, shared.MapRepoErr(err)
		}
		return next, nil
	})
}
