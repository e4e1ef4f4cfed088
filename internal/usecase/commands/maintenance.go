package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type SweepResult struct {
	ExpiredHolds    int64
	ExpiredDeposits int
}

// MaintenanceCommands are the scheduled jobs.
type MaintenanceCommands interface {
	RequestDueBalances(ctx context.Context) (int, error)
	Sweep(ctx context.Context) (SweepResult, error)
}

type MaintenanceOptions struct {
	BalanceDueDays int
	DepositHoldTTL time.Duration
	BatchSize      int
}

type maintenanceCommandsImpl struct {
	uow       shared.UnitOfWork
	lifecycle *Lifecycle
	payments  PaymentCommands
	clock     clock.Clock
	opts      MaintenanceOptions
}

func NewMaintenanceCommands(
	uow shared.UnitOfWork,
	lifecycle *Lifecycle,
	payments PaymentCommands,
	clk clock.Clock,
	opts MaintenanceOptions,
) MaintenanceCommands {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &maintenanceCommandsImpl{
		uow:       uow,
		lifecycle: lifecycle,
		payments:  payments,
		clock:     clk,
		opts:      opts,
	}
}

// RequestDueBalances opens balance checkouts for deposit-paid bookings whose check-in is
// within BalanceDueDays. Failures are logged per booking and do not stop the batch.
func (m *maintenanceCommandsImpl) RequestDueBalances(ctx context.Context) (int, error) {
	cutoff := clock.Today(m.clock).AddDate(0, 0, m.opts.BalanceDueDays+1)
	ids, err := m.uow.Reads().Bookings().ListDueForBalance(ctx, cutoff, m.opts.BatchSize)
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	requested := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return requested, ctx.Err()
		}
		if _, err := m.payments.CreateBalanceIntent(ctx, id); err != nil {
			slog.WarnContext(ctx, "balance request failed", "booking_id", id.String(), "error", err.Error())
			continue
		}
		requested++
	}
	return requested, nil
}

// Sweep deletes expired holds and fails deposit requests older than DepositHoldTTL.
func (m *maintenanceCommandsImpl) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	now := m.clock.Now()

	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Availability().DeleteExpiredHolds(ctx, now)
		result.ExpiredHolds = n
		return err
	})
	if err != nil {
		return result, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if m.opts.DepositHoldTTL <= 0 {
		return result, nil
	}
	ids, err := m.uow.Reads().Bookings().ListStaleDepositRequests(ctx, now.Add(-m.opts.DepositHoldTTL), m.opts.BatchSize)
	if err != nil {
		return result, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	for _, id := range ids {
		expired, err := m.expireDeposit(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "deposit expiry failed", "booking_id", id.String(), "error", err.Error())
			continue
		}
		if expired {
			result.ExpiredDeposits++
		}
	}
	return result, nil
}

func (m *maintenanceCommandsImpl) expireDeposit(ctx context.Context, id uuid.UUID) (bool, error) {
	var expired bool
	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		expired, err = m.lifecycle.ExpireDeposit(ctx, tx, id)
		return err
	})
	return expired, err
}
