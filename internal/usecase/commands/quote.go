package commands

import (
	"context"
	"log/slog"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/risk"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/metrics"
	"booking-engine/internal/usecase/queries"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type QuoteRequest struct {
	PropertyID uuid.UUID
	Stay       availability.DateRange
	Guests     int
	Contact    booking.Contact
	Submission risk.Submission
	Request    risk.RequestContext
}

type QuoteResult struct {
	BookingID uuid.UUID
	Quote     *queries.QuoteView
}

type QuoteCommands interface {
	// RequestQuote screens the submission, prices the stay and creates a quote_issued booking.
	RequestQuote(ctx context.Context, req QuoteRequest) (*QuoteResult, error)
}

type GuardOptions struct {
	RateLimit  int64
	RateWindow time.Duration
	BlockTTL   time.Duration
}

type quoteCommandsImpl struct {
	uow    shared.UnitOfWork
	quotes queries.QuoteQueries
	scorer *risk.Scorer
	guard  SubmissionGuard
	clock  clock.Clock
	opts   GuardOptions
}

func NewQuoteCommands(
	uow shared.UnitOfWork,
	quotes queries.QuoteQueries,
	scorer *risk.Scorer,
	guard SubmissionGuard,
	clk clock.Clock,
	opts GuardOptions,
) QuoteCommands {
	return &quoteCommandsImpl{
		uow:    uow,
		quotes: quotes,
		scorer: scorer,
		guard:  guard,
		clock:  clk,
		opts:   opts,
	}
}

func (c *quoteCommandsImpl) RequestQuote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	if err := c.screen(ctx, req.Submission, req.Request); err != nil {
		return nil, err
	}

	priced, err := c.quotes.Price(ctx, req.PropertyID, req.Stay, req.Guests)
	if err != nil {
		return nil, err
	}

	b, err := booking.NewFromQuote(req.PropertyID, req.Contact, priced.Quote, priced.BalanceDueDate, c.clock.Now())
	if err != nil {
		return nil, err
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "quote issued",
		"booking_id", b.ID().String(),
		"property_id", req.PropertyID.String(),
		"stay", req.Stay.String(),
		"total", priced.Quote.Total().Minor())

	return &QuoteResult{
		BookingID: b.ID(),
		Quote:     queries.QuoteViewOf(req.PropertyID, priced.Quote, priced.BalanceDueDate, priced.Policy),
	}, nil
}

// screen runs the scorer and then the cross-request guard (blocklist, rate limit).
// Guard store failures are logged and do not reject the submission.
func (c *quoteCommandsImpl) screen(ctx context.Context, sub risk.Submission, rc risk.RequestContext) error {
	assessment := c.scorer.Assess(sub, rc)
	if !assessment.Accept {
		if assessment.Block && rc.IP != "" && c.opts.BlockTTL > 0 {
			if err := c.guard.Block(ctx, rc.IP, c.opts.BlockTTL); err != nil {
				slog.WarnContext(ctx, "failed to block ip", "error", err.Error())
			}
		}
		return c.reject(ctx, assessment, rc)
	}
	if rc.IP == "" {
		return nil
	}

	blocked, err := c.guard.IsBlocked(ctx, rc.IP)
	if err != nil {
		slog.WarnContext(ctx, "blocklist lookup failed", "error", err.Error())
	} else if blocked {
		return c.reject(ctx, risk.Assessment{Reason: risk.ReasonBlockedIP, Detail: "ip on blocklist"}, rc)
	}

	if c.opts.RateLimit > 0 {
		allowed, err := c.guard.Allow(ctx, rc.IP, c.opts.RateLimit, c.opts.RateWindow)
		if err != nil {
			slog.WarnContext(ctx, "rate limit lookup failed", "error", err.Error())
		} else if !allowed {
			return c.reject(ctx, risk.Assessment{Reason: risk.ReasonRateLimited, Detail: "submission rate exceeded"}, rc)
		}
	}
	return nil
}

func (c *quoteCommandsImpl) reject(ctx context.Context, a risk.Assessment, rc risk.RequestContext) error {
	metrics.RiskRejection(string(a.Reason))
	slog.WarnContext(ctx, "submission rejected",
		"reason", string(a.Reason),
		"detail", a.Detail,
		"ip", rc.IP,
		"user_agent", rc.UserAgent)
	return risk.Rejected(a.Reason, a.Detail)
}
