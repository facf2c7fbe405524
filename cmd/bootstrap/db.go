package bootstrap

import (
	"context"
	"log/slog"

	"booking-core/internal/infra/db"
	"booking-core/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB opens the pool and, with DB_AUTO_MIGRATE, brings the schema up to date before the server starts.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if !cfg.DB.AutoMigrate {
				logger.Info("マイグレーションをスキップします", "database", cfg.DB.DBName)
				return nil
			}
			return db.Migrate(pool)
		},
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})
	return pool, nil
}
