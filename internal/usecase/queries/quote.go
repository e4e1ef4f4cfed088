package queries

import (
	"context"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/property"
	"booking-engine/internal/domain/quote"
	"booking-engine/internal/domain/risk"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Unavailable ranges returned with a DateUnavailable error cover the stay plus this many days either side.
const conflictContextDays = 31

type PricedStay struct {
	Property       *property.Property
	Quote          quote.Quote
	Policy         quote.Policy
	BalanceDueDate time.Time
}

type QuoteQueries interface {
	// Price validates the stay against the booking window, capacity and current availability.
	Price(ctx context.Context, propertyID uuid.UUID, stay availability.DateRange, guests int) (*PricedStay, error)
	Preview(ctx context.Context, propertyID uuid.UUID, stay availability.DateRange, guests int) (*QuoteView, error)
	Challenge(ctx context.Context) ChallengeView
}

type quoteQueriesImpl struct {
	uow          shared.UnitOfWork
	availability AvailabilityQueries
	calculator   *quote.Calculator
	challenge    risk.Challenge
	clock        clock.Clock
}

func NewQuoteQueries(
	uow shared.UnitOfWork,
	availabilityQueries AvailabilityQueries,
	calculator *quote.Calculator,
	challenge risk.Challenge,
	clk clock.Clock,
) QuoteQueries {
	return &quoteQueriesImpl{
		uow:          uow,
		availability: availabilityQueries,
		calculator:   calculator,
		challenge:    challenge,
		clock:        clk,
	}
}

func (q *quoteQueriesImpl) Price(ctx context.Context, propertyID uuid.UUID, stay availability.DateRange, guests int) (*PricedStay, error) {
	policy := q.calculator.Policy()
	today := clock.Today(q.clock)
	if err := policy.CheckBookingWindow(today, stay); err != nil {
		return nil, err
	}

	prop, err := q.uow.Reads().Properties().FindByID(ctx, propertyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	computed, err := q.calculator.Compute(quote.RateCardOf(prop), stay, guests)
	if err != nil {
		return nil, err
	}

	around := availability.MustDateRange(
		stay.Start().AddDate(0, 0, -conflictContextDays),
		stay.End().AddDate(0, 0, conflictContextDays),
	)
	unavailable, err := q.availability.UnavailableRanges(ctx, propertyID, around)
	if err != nil {
		return nil, err
	}
	if err := availability.CheckStay(unavailable, stay); err != nil {
		return nil, err
	}

	return &PricedStay{
		Property:       prop,
		Quote:          computed,
		Policy:         policy,
		BalanceDueDate: policy.BalanceDueDate(today, stay),
	}, nil
}

func (q *quoteQueriesImpl) Preview(ctx context.Context, propertyID uuid.UUID, stay availability.DateRange, guests int) (*QuoteView, error) {
	priced, err := q.Price(ctx, propertyID, stay, guests)
	if err != nil {
		return nil, err
	}
	return QuoteViewOf(propertyID, priced.Quote, priced.BalanceDueDate, priced.Policy), nil
}

func (q *quoteQueriesImpl) Challenge(_ context.Context) ChallengeView {
	now := q.clock.Now()
	return ChallengeView{
		Token:      q.challenge.Token(now),
		ServerTime: now.UTC(),
		WindowSecs: int64(q.challenge.Window().Seconds()),
	}
}
