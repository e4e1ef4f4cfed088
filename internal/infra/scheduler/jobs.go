package scheduler

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase/commands"
)

const (
	JobBalanceRequests = "balance-requests"
	JobSweep           = "sweep"
)

// Pruner is implemented by in-process stores that need periodic cleanup.
type Pruner interface {
	Prune() int
}

func BookingJobs(cfg config.SchedulerConfig, maintenance commands.MaintenanceCommands, pruner Pruner) []Job {
	return []Job{
		{
			Name:    JobBalanceRequests,
			Spec:    cfg.BalanceSpec,
			Timeout: 10 * time.Minute,
			Run: func(ctx context.Context) error {
				n, err := maintenance.RequestDueBalances(ctx)
				if n > 0 {
					slog.Info("balance requests sent", "count", n)
				}
				return err
			},
		},
		{
			Name:    JobSweep,
			Spec:    cfg.SweepSpec,
			Timeout: 2 * time.Minute,
			Run: func(ctx context.Context) error {
				res, err := maintenance.Sweep(ctx)
				if res.ExpiredHolds > 0 || res.ExpiredDeposits > 0 {
					slog.Info("sweep released dates",
						"expired_holds", res.ExpiredHolds,
						"expired_deposits", res.ExpiredDeposits)
				}
				if pruner != nil {
					pruner.Prune()
				}
				return err
			},
		},
	}
}
