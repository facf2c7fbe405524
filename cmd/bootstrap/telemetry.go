package bootstrap

import (
	"context"
	"log/slog"

	"booking-core/internal/infra/telemetry"
	"booking-core/internal/pkg/config"

	"go.uber.org/fx"
)

var TelemetryModule = fx.Module("telemetry",
	fx.Invoke(RegisterTelemetry),
)

func RegisterTelemetry(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) {
	if !cfg.Telemetry.Enabled {
		return
	}
	var shutdown telemetry.ShutdownFunc
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = telemetry.Setup(ctx, cfg.Telemetry)
			if err != nil {
				return err
			}
			logger.Info("トレースを有効化しました", "endpoint", cfg.Telemetry.OTLPEndpoint, "ratio", cfg.Telemetry.SampleRatio)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}
