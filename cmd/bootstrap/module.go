package bootstrap

import (
	"booking-core/cmd/bootstrap/components"
	"booking-core/internal/pkg/config"

	"go.uber.org/fx"
)

func Module(cfg config.Config) fx.Option {
	return fx.Options(
		ConfigModule(cfg),
		LoggerModule,
		TelemetryModule,
		StoreModule(cfg),
		CacheModule,
		NotifyModule,
		components.UseCaseModule,
		components.HandlerModule,
		WorkerModule,
	)
}
