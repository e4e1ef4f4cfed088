package commands

import (
	"context"
	"log/slog"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/payment"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/metrics"
	"booking-engine/internal/usecase/queries"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Lifecycle runs booking transitions inside a caller-owned transaction.
// It keeps the booked availability entry in step with the booking status.
type Lifecycle struct {
	clock clock.Clock
}

func NewLifecycle(clk clock.Clock) *Lifecycle {
	return &Lifecycle{clock: clk}
}

// RequestDeposit re-validates the stay under the property lock and claims the dates.
// A booking already in deposit_requested is returned unchanged.
func (l *Lifecycle) RequestDeposit(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := lockBooking(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status() == booking.StatusDepositRequested {
		return b, nil
	}
	if !b.Status().CanTransitionTo(booking.StatusDepositRequested) {
		return nil, invalidTransition(b, booking.StatusDepositRequested)
	}

	if _, err := tx.Properties().LockByID(ctx, b.PropertyID()); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, queries.ErrPropertyNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := l.claimDates(ctx, tx, b); err != nil {
		return nil, err
	}

	if _, err := l.apply(ctx, tx, b, booking.StatusDepositRequested, "deposit requested"); err != nil {
		return nil, err
	}
	return b, nil
}

// RequestBalance moves a deposit-paid booking to balance_requested. Repeating it is a no-op.
func (l *Lifecycle) RequestBalance(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := lockBooking(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := l.apply(ctx, tx, b, booking.StatusBalanceRequested, "balance requested"); err != nil {
		return nil, err
	}
	return b, nil
}

// PaymentResult reports what a payment status change did to its booking.
type PaymentResult struct {
	Changed bool
	// Ignored is set when the booking has moved past the state the payment was for.
	Ignored bool
	// RefundDue marks captured funds the booking can no longer use.
	RefundDue bool
}

// ApplyPayment advances the booking owning rec after rec changed status.
// Records that are no longer the booking's current deposit or balance attempt leave the booking alone,
// as do payments landing on a booking that has left the matching state.
func (l *Lifecycle) ApplyPayment(ctx context.Context, tx shared.Tx, rec *payment.Record, reason string) (PaymentResult, error) {
	b, err := lockBooking(ctx, tx, rec.BookingID())
	if err != nil {
		return PaymentResult{}, err
	}

	if rec.Status() == payment.StatusRefunded {
		changed, err := l.applyRefund(ctx, tx, b, reason)
		return PaymentResult{Changed: changed}, err
	}

	captured := rec.Status() == payment.StatusSucceeded && rec.RefundReference() == ""

	current := b.DepositPaymentID()
	if rec.Purpose() == payment.PurposeBalance {
		current = b.BalancePaymentID()
	}
	if current == nil || *current != rec.ID() {
		slog.WarnContext(ctx, "payment is not the current attempt; booking unchanged",
			"booking_id", b.ID().String(),
			"payment_id", rec.ID().String())
		return PaymentResult{RefundDue: captured}, nil
	}

	var target booking.Status
	switch {
	case rec.Purpose() == payment.PurposeDeposit && rec.Status() == payment.StatusSucceeded:
		target = booking.StatusDepositPaid
	case rec.Purpose() == payment.PurposeDeposit && rec.Status() == payment.StatusFailed:
		target = booking.StatusDepositFailed
	case rec.Purpose() == payment.PurposeBalance && rec.Status() == payment.StatusSucceeded:
		target = booking.StatusConfirmed
	case rec.Purpose() == payment.PurposeBalance && rec.Status() == payment.StatusFailed:
		target = booking.StatusBalanceFailed
	default:
		return PaymentResult{}, nil
	}

	if b.Status() != target && !b.Status().CanTransitionTo(target) {
		slog.WarnContext(ctx, "payment arrived after the booking moved on",
			"booking_id", b.ID().String(),
			"payment_id", rec.ID().String(),
			"booking_status", string(b.Status()),
			"payment_status", string(rec.Status()))
		return PaymentResult{Ignored: true, RefundDue: captured}, nil
	}

	changed, err := l.apply(ctx, tx, b, target, reason)
	if err != nil || !changed {
		return PaymentResult{Changed: changed}, err
	}
	if target == booking.StatusDepositPaid {
		if err := l.ensureBookedEntry(ctx, tx, b); err != nil {
			return PaymentResult{}, err
		}
	}
	return PaymentResult{Changed: true}, nil
}

// Cancel moves the booking to cancelled and returns the captured payments still awaiting a refund.
// Cancelling an already cancelled booking only returns those payments.
func (l *Lifecycle) Cancel(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, reason string) (*booking.Booking, []*payment.Record, error) {
	b, err := lockBooking(ctx, tx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.Status() != booking.StatusCancelled {
		if !b.Status().Cancellable() {
			return nil, nil, invalidTransition(b, booking.StatusCancelled)
		}
		if _, err := l.apply(ctx, tx, b, booking.StatusCancelled, reason); err != nil {
			return nil, nil, err
		}
	}

	records, err := tx.Payments().ListByBooking(ctx, b.ID())
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	var refundable []*payment.Record
	for _, r := range records {
		if r.Status() == payment.StatusSucceeded && r.RefundReference() == "" {
			refundable = append(refundable, r)
		}
	}
	return b, refundable, nil
}

// ExpireDeposit fails a deposit_requested booking whose deposit never arrived, releasing its dates.
func (l *Lifecycle) ExpireDeposit(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) (bool, error) {
	b, err := lockBooking(ctx, tx, bookingID)
	if err != nil {
		return false, err
	}
	if b.Status() != booking.StatusDepositRequested {
		return false, nil
	}
	return l.apply(ctx, tx, b, booking.StatusDepositFailed, "deposit hold expired")
}

func (l *Lifecycle) applyRefund(ctx context.Context, tx shared.Tx, b *booking.Booking, reason string) (bool, error) {
	if b.Status() != booking.StatusRefunded && !b.Status().CanTransitionTo(booking.StatusRefunded) {
		// Refunds issued outside a cancellation update the payment only.
		slog.WarnContext(ctx, "refund recorded on a booking that cannot be refunded",
			"booking_id", b.ID().String(),
			"status", string(b.Status()))
		return false, nil
	}
	records, err := tx.Payments().ListByBooking(ctx, b.ID())
	if err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	for _, r := range records {
		if r.Status() == payment.StatusSucceeded {
			return false, nil
		}
	}
	return l.apply(ctx, tx, b, booking.StatusRefunded, reason)
}

func (l *Lifecycle) apply(ctx context.Context, tx shared.Tx, b *booking.Booking, target booking.Status, reason string) (bool, error) {
	from := b.Status()
	changed, err := b.TransitionTo(target, reason, l.clock.Now())
	if err != nil || !changed {
		return changed, err
	}

	if from.HoldsDates() && !target.HoldsDates() {
		if _, err := tx.Availability().DeleteByBooking(ctx, b.ID()); err != nil {
			return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	if err := tx.Bookings().Update(ctx, b); err != nil {
		return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	metrics.Transition(string(from), string(target))
	slog.InfoContext(ctx, "booking transition",
		"booking_id", b.ID().String(),
		"from", string(from),
		"to", string(target),
		"reason", reason)
	return true, nil
}

func (l *Lifecycle) claimDates(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	entries, err := tx.Availability().ListOverlapping(ctx, b.PropertyID(), b.Stay())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	others := make([]*availability.Entry, 0, len(entries))
	for _, e := range entries {
		if id := e.BookingID(); id != nil && *id == b.ID() {
			continue
		}
		others = append(others, e)
	}
	unavailable := availability.Union(availability.Ranges(others, l.clock.Now()))
	if err := availability.CheckStay(unavailable, b.Stay()); err != nil {
		return err
	}
	return l.ensureBookedEntry(ctx, tx, b)
}

func (l *Lifecycle) ensureBookedEntry(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	_, err := tx.Availability().FindByBooking(ctx, b.ID())
	if err == nil {
		return nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	entry := availability.NewBookedEntry(b.PropertyID(), b.ID(), b.Stay(), l.clock.Now())
	if err := tx.Availability().Create(ctx, entry); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.Mark(&availability.UnavailableError{
				Stay:      b.Stay(),
				Conflicts: []availability.DateRange{b.Stay()},
			}, errs.ErrDateUnavailable)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func lockBooking(ctx context.Context, tx shared.Tx, id uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().LockByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, queries.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}

func invalidTransition(b *booking.Booking, target booking.Status) error {
	return errs.Markf(errs.ErrInvalidTransition, "booking %s: %s -> %s not allowed", b.ID(), b.Status(), target)
}
