package components

import (
	"booking-core/internal/handler"
	"booking-core/internal/handler/api"
	"booking-core/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSlotHandler,
		api.NewAppointmentHandler,
		api.NewEmployeeHandler,
		api.NewSettingsHandler,
		api.NewReminderHandler,
		middleware.NewTenantMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

type handlerParams struct {
	fx.In

	Slots        *api.SlotHandler
	Appointments *api.AppointmentHandler
	Employees    *api.EmployeeHandler
	Settings     *api.SettingsHandler
	Reminders    *api.ReminderHandler
}

func newHandlers(p handlerParams) handler.Handlers {
	return handler.Handlers{
		Slots:        p.Slots,
		Appointments: p.Appointments,
		Employees:    p.Employees,
		Settings:     p.Settings,
		Reminders:    p.Reminders,
	}
}
