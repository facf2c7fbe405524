package bootstrap

import (
	"strings"

	"booking-core/internal/domain/appointment"
	"booking-core/internal/domain/reminder"
	"booking-core/internal/domain/tenant"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"

	"go.uber.org/fx"
)

// ConfigModule supplies the already loaded configuration; main needs it to pick the store.
func ConfigModule(cfg config.Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(NewTenantDefaults),
	)
}

// NewTenantDefaults builds the settings used by tenants that never stored their own.
func NewTenantDefaults(cfg config.Config) (tenant.Defaults, error) {
	offsets, err := cfg.Reservation.ReminderOffsets()
	if err != nil {
		return tenant.Defaults{}, err
	}
	channels := make([]reminder.Channel, 0, len(cfg.Reservation.DefaultChannels))
	for _, ch := range cfg.Reservation.DefaultChannels {
		channels = append(channels, reminder.Channel(ch))
	}
	settings := tenant.Settings{
		SlotStepMinutes:  cfg.Reservation.DefaultSlotStep,
		ReminderOffsets:  offsets,
		ReminderChannels: channels,
		DefaultStatus:    appointment.Status(strings.ToUpper(cfg.Reservation.DefaultStatus)),
	}
	if err := settings.Validate(); err != nil {
		return tenant.Defaults{}, errs.Wrap(err, "invalid default tenant settings")
	}
	return tenant.Defaults{Settings: settings}, nil
}
