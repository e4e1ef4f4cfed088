package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/infra/ratelimit"
	"booking-engine/internal/infra/scheduler"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewSubmissionGuard,
	),
)

type GuardResult struct {
	fx.Out

	Guard  commands.SubmissionGuard
	Pruner scheduler.Pruner
}

// NewSubmissionGuard uses redis when REDIS_ADDR is set and an in-process guard otherwise.
func NewSubmissionGuard(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (GuardResult, error) {
	if cfg.Redis.Addr == "" {
		slog.Warn("REDIS_ADDR not set, rate limits and blocklist are per replica")
		guard := ratelimit.NewMemoryGuard(clk)
		return GuardResult{Guard: guard, Pruner: guard}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return GuardResult{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return GuardResult{Guard: ratelimit.NewRedisGuard(client, cfg.Redis.Prefix)}, nil
}
