package bootstrap

import (
	"context"
	"log/slog"

	"booking-engine/internal/infra/scheduler"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		scheduler.New,
	),
	fx.Invoke(StartScheduler),
)

type schedulerParams struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Config      config.Config
	Scheduler   *scheduler.Scheduler
	Maintenance commands.MaintenanceCommands
	Pruner      scheduler.Pruner `optional:"true"`
}

func StartScheduler(p schedulerParams) error {
	if !p.Config.Scheduler.Enabled {
		slog.Info("scheduler disabled")
		return nil
	}

	for _, job := range scheduler.BookingJobs(p.Config.Scheduler, p.Maintenance, p.Pruner) {
		if err := p.Scheduler.Register(job); err != nil {
			return err
		}
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			p.Scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return p.Scheduler.Stop(ctx)
		},
	})
	return nil
}
