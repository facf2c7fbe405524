package bootstrap

import (
	"context"
	"log/slog"

	"booking-core/internal/handler/middleware"
	"booking-core/internal/infra/cache"
	"booking-core/internal/pkg/config"
	"booking-core/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewRedis,
		NewSlotCache,
		NewRateLimiter,
	),
)

// NewRedis returns nil when REDIS_ADDR is empty; dependants fall back to no-op implementations.
func NewRedis(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*redis.Client, error) {
	rdb, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		logger.Info("Redis未設定のためスロットキャッシュとレート制限を無効化します")
		return nil, nil
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return rdb, nil
}

func NewSlotCache(rdb *redis.Client, cfg config.Config) shared.SlotCache {
	if rdb == nil {
		return cache.NoopSlotCache{}
	}
	return cache.NewRedisSlotCache(rdb, cfg.Redis.SlotTTL)
}

func NewRateLimiter(rdb *redis.Client, cfg config.Config) middleware.RateLimiter {
	if rdb == nil {
		return cache.AllowAllLimiter{}
	}
	return cache.NewRedisRateLimiter(rdb, cfg.RateLimit.ReserveLimit, cfg.RateLimit.Window)
}
