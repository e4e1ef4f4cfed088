package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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

var errUnmatchedReference = errs.New("no payment for gateway reference")

type CheckoutResult struct {
	BookingID     uuid.UUID
	PaymentID     uuid.UUID
	Purpose       payment.Purpose
	BookingStatus booking.Status
	Reference     string
	SessionURL    string
}

type CancelResult struct {
	BookingID      uuid.UUID
	Status         booking.Status
	RefundsStarted int
	RefundsPending []uuid.UUID
}

type PaymentCommands interface {
	// StartCheckout picks the deposit or balance intent from the booking's current status.
	StartCheckout(ctx context.Context, bookingID uuid.UUID) (*CheckoutResult, error)
	CreateDepositIntent(ctx context.Context, bookingID uuid.UUID) (*CheckoutResult, error)
	CreateBalanceIntent(ctx context.Context, bookingID uuid.UUID) (*CheckoutResult, error)
	HandleGatewayEvent(ctx context.Context, ev payment.GatewayEvent) (payment.Outcome, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, reason string) (*CancelResult, error)
}

type PaymentOptions struct {
	Timeout time.Duration
}

type paymentCommandsImpl struct {
	uow       shared.UnitOfWork
	lifecycle *Lifecycle
	gateway   PaymentGateway
	clock     clock.Clock
	opts      PaymentOptions
}

func NewPaymentCommands(uow shared.UnitOfWork, lifecycle *Lifecycle, gateway PaymentGateway, clk clock.Clock, opts PaymentOptions) PaymentCommands {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &paymentCommandsImpl{
		uow:       uow,
		lifecycle: lifecycle,
		gateway:   gateway,
		clock:     clk,
		opts:      opts,
	}
}

func (p *paymentCommandsImpl) StartCheckout(ctx context.Context, bookingID uuid.UUID) (*CheckoutResult, error) {
	b, err := p.uow.Reads().Bookings().FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, queries.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	switch b.Status() {
	case booking.StatusQuoteIssued, booking.StatusDepositFailed, booking.StatusDepositRequested:
		return p.CreateDepositIntent(ctx, bookingID)
	case booking.StatusDepositPaid, booking.StatusBalanceFailed, booking.StatusBalanceRequested:
		return p.CreateBalanceIntent(ctx, bookingID)
	default:
		return nil, errs.Markf(errs.ErrInvalidTransition, "booking %s is %s; nothing to pay", b.ID(), b.Status())
	}
}

func (p *paymentCommandsImpl) CreateDepositIntent(ctx context.Context, bookingID uuid.UUID) (*CheckoutResult, error) {
	return p.createIntent(ctx, bookingID, payment.PurposeDeposit)
}

func (p *paymentCommandsImpl) CreateBalanceIntent(ctx context.Context, bookingID uuid.UUID) (*CheckoutResult, error) {
	return p.createIntent(ctx, bookingID, payment.PurposeBalance)
}

// createIntent persists the PaymentRecord before the gateway is contacted, so a failed or
// timed-out call leaves a record that the next attempt reuses under the same idempotency key.
func (p *paymentCommandsImpl) createIntent(ctx context.Context, bookingID uuid.UUID, purpose payment.Purpose) (*CheckoutResult, error) {
	var (
		b   *booking.Booking
		rec *payment.Record
	)
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if purpose == payment.PurposeDeposit {
			b, err = p.lifecycle.RequestDeposit(ctx, tx, bookingID)
		} else {
			b, err = p.lifecycle.RequestBalance(ctx, tx, bookingID)
		}
		if err != nil {
			return err
		}
		rec, err = p.openRecord(ctx, tx, b, purpose)
		return err
	})
	if err != nil {
		return nil, err
	}

	if rec.HasSession() {
		return checkoutResult(b, rec), nil
	}

	sess, err := p.openSession(ctx, b, rec)
	if err != nil {
		slog.WarnContext(ctx, "gateway checkout failed",
			"booking_id", b.ID().String(),
			"payment_id", rec.ID().String(),
			"error", err.Error())
		return nil, err
	}

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		fresh, err := tx.Payments().FindByID(ctx, rec.ID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if fresh.HasSession() {
			rec = fresh
			return nil
		}
		if err := fresh.MarkPending(sess.Reference, sess.URL, p.clock.Now()); err != nil {
			return err
		}
		if err := tx.Payments().Update(ctx, fresh); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		rec = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checkoutResult(b, rec), nil
}

// openRecord returns the booking's open payment for purpose, creating one when there is none.
func (p *paymentCommandsImpl) openRecord(ctx context.Context, tx shared.Tx, b *booking.Booking, purpose payment.Purpose) (*payment.Record, error) {
	currentID := b.DepositPaymentID()
	amount := b.Amounts().Deposit
	if purpose == payment.PurposeBalance {
		currentID = b.BalancePaymentID()
		amount = b.Amounts().Balance
	}

	if currentID != nil {
		existing, err := tx.Payments().FindByID(ctx, *currentID)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if existing.Open() {
			return existing, nil
		}
	}

	rec, err := payment.NewRecord(b.ID(), purpose, amount, b.Amounts().Currency, p.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := tx.Payments().Create(ctx, rec); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if purpose == payment.PurposeDeposit {
		b.AttachDepositPayment(rec.ID())
	} else {
		b.AttachBalancePayment(rec.ID())
	}
	if err := tx.Bookings().Update(ctx, b); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rec, nil
}

func (p *paymentCommandsImpl) openSession(ctx context.Context, b *booking.Booking, rec *payment.Record) (CheckoutSession, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	sess, err := p.gateway.CreateCheckoutSession(callCtx, CheckoutRequest{
		IdempotencyKey: rec.ID().String(),
		BookingID:      b.ID(),
		PaymentID:      rec.ID(),
		Purpose:        rec.Purpose(),
		Amount:         rec.Amount(),
		Currency:       rec.Currency(),
		Description:    fmt.Sprintf("%s for stay %s", rec.Purpose(), b.Stay()),
		CustomerEmail:  b.Contact().Email,
	})
	metrics.GatewayCall("checkout", err)
	if err != nil {
		return CheckoutSession{}, classifyGatewayErr(callCtx, err)
	}
	return sess, nil
}

func (p *paymentCommandsImpl) HandleGatewayEvent(ctx context.Context, ev payment.GatewayEvent) (payment.Outcome, error) {
	target, ok := ev.TargetStatus()
	if !ok {
		metrics.GatewayEvent(string(ev.Type), string(payment.OutcomeIgnored))
		return payment.OutcomeIgnored, nil
	}

	var (
		outcome payment.Outcome
		applied  *payment.Record
		captured bool
		result   PaymentResult
	)
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		outcome = ""
		applied = nil
		captured = false
		inserted, err := tx.GatewayEvents().MarkProcessed(ctx, ev, p.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !inserted {
			outcome = payment.OutcomeDuplicate
			return nil
		}

		rec, err := tx.Payments().LockByReference(ctx, ev.Reference)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				// Roll back the dedup row so a redelivery after the session is stored can still match.
				return errUnmatchedReference
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		changed, err := rec.Apply(target, ev.ID, p.clock.Now())
		if err != nil {
			return err
		}
		if changed {
			if err := tx.Payments().Update(ctx, rec); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			captured = rec.Status() == payment.StatusSucceeded
		}
		result, err = p.lifecycle.ApplyPayment(ctx, tx, rec, string(ev.Type))
		if err != nil {
			return err
		}
		applied = rec
		outcome = payment.OutcomeApplied
		if result.Ignored {
			outcome = payment.OutcomeIgnored
		}
		return nil
	})

	switch {
	case err == nil:
	case errs.Is(err, errUnmatchedReference):
		outcome = payment.OutcomeUnmatched
		slog.WarnContext(ctx, "gateway event for unknown reference dropped",
			"event_id", ev.ID,
			"type", string(ev.Type),
			"reference", ev.Reference)
	case errs.Is(err, errs.ErrInvalidTransition):
		outcome = payment.OutcomeIgnored
		slog.ErrorContext(ctx, "gateway event rejected by lifecycle",
			"event_id", ev.ID,
			"type", string(ev.Type),
			"reference", ev.Reference,
			"error", err.Error())
		p.recordIgnored(ctx, ev)
	default:
		return "", err
	}

	// Only a capture made by this event is refunded; replays of one the booking already used are not.
	if applied != nil && captured && result.RefundDue {
		p.refundLateCapture(ctx, applied)
	}

	metrics.GatewayEvent(string(ev.Type), string(outcome))
	return outcome, nil
}

// refundLateCapture returns funds captured for a booking that can no longer use them.
// A failed refund stays visible to the next Cancel, which lists unrefunded succeeded records.
func (p *paymentCommandsImpl) refundLateCapture(ctx context.Context, rec *payment.Record) {
	slog.WarnContext(ctx, "refunding payment captured after the booking moved on",
		"booking_id", rec.BookingID().String(),
		"payment_id", rec.ID().String())
	if err := p.refund(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "refund request failed",
			"booking_id", rec.BookingID().String(),
			"payment_id", rec.ID().String(),
			"error", err.Error())
	}
}

// recordIgnored keeps the event id so redeliveries of a rejected event short-circuit as duplicates.
func (p *paymentCommandsImpl) recordIgnored(ctx context.Context, ev payment.GatewayEvent) {
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.GatewayEvents().MarkProcessed(ctx, ev, p.clock.Now())
		return err
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record ignored gateway event", "event_id", ev.ID, "error", err.Error())
	}
}

func (p *paymentCommandsImpl) Cancel(ctx context.Context, bookingID uuid.UUID, reason string) (*CancelResult, error) {
	var (
		b          *booking.Booking
		refundable []*payment.Record
	)
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		b, refundable, err = p.lifecycle.Cancel(ctx, tx, bookingID, reason)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &CancelResult{BookingID: b.ID(), Status: b.Status()}
	for _, rec := range refundable {
		if err := p.refund(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "refund request failed",
				"booking_id", b.ID().String(),
				"payment_id", rec.ID().String(),
				"error", err.Error())
			result.RefundsPending = append(result.RefundsPending, rec.ID())
			continue
		}
		result.RefundsStarted++
	}
	return result, nil
}

func (p *paymentCommandsImpl) refund(ctx context.Context, rec *payment.Record) error {
	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	refundID, err := p.gateway.Refund(callCtx, RefundRequest{
		IdempotencyKey: "refund-" + rec.ID().String(),
		Reference:      rec.GatewayReference(),
		Amount:         rec.Amount(),
	})
	metrics.GatewayCall("refund", err)
	if err != nil {
		return classifyGatewayErr(callCtx, err)
	}

	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		fresh, err := tx.Payments().FindByID(ctx, rec.ID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		fresh.SetRefundReference(refundID, p.clock.Now())
		if err := tx.Payments().Update(ctx, fresh); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func classifyGatewayErr(callCtx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) || errs.Is(err, errs.ErrGatewayTimeout) {
		return errs.Mark(errs.Wrap(err, "payment gateway timed out"), errs.ErrGatewayTimeout)
	}
	if errs.Is(err, errs.ErrGateway) {
		return err
	}
	return errs.Mark(errs.Wrap(err, "payment gateway call failed"), errs.ErrGateway)
}

func checkoutResult(b *booking.Booking, rec *payment.Record) *CheckoutResult {
	return &CheckoutResult{
		BookingID:     b.ID(),
		PaymentID:     rec.ID(),
		Purpose:       rec.Purpose(),
		BookingStatus: b.Status(),
		Reference:     rec.GatewayReference(),
		SessionURL:    rec.SessionURL(),
	}
}
