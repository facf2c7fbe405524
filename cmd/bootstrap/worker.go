package bootstrap

import (
	"log/slog"

	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/reminders"
	"booking-core/internal/usecase/shared"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(NewDispatcher),
	fx.Invoke(RegisterDispatcher),
)

func NewDispatcher(uow shared.UnitOfWork, sender reminders.Sender, clk clock.Clock, logger *slog.Logger, cfg config.Config) *reminders.Dispatcher {
	return reminders.NewDispatcher(uow, sender, clk, logger, cfg.Reminder)
}

// RegisterDispatcher ties the sweep loop to the application lifecycle when REMINDER_ENABLED is set.
func RegisterDispatcher(lc fx.Lifecycle, d *reminders.Dispatcher, cfg config.Config) {
	if !cfg.Reminder.Enabled {
		return
	}
	lc.Append(fx.Hook{
		OnStart: d.Start,
		OnStop:  d.Stop,
	})
}
