//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/quote"
	"booking-engine/internal/domain/risk"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/queries"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/memstore"
	queriesmock "booking-engine/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type QuoteQueriesSuite struct {
	suite.Suite
	ctx        context.Context
	ctrl       *gomock.Controller
	store      *memstore.Store
	clk        *clock.MockClock
	avail      *queriesmock.MockAvailabilityQueries
	challenge  risk.Challenge
	queries    queries.QuoteQueries
	propertyID uuid.UUID
}

func TestQuoteQueriesSuite(t *testing.T) {
	suite.Run(t, new(QuoteQueriesSuite))
}

func (s *QuoteQueriesSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.store = memstore.New()
	s.clk = clock.NewMockClock(now)
	s.avail = queriesmock.NewMockAvailabilityQueries(s.ctrl)
	s.challenge = risk.NewChallenge(10*time.Second, "challenge-secret")

	calc, err := quote.NewCalculator(quote.Policy{
		WeekendDays:        []time.Weekday{time.Friday, time.Saturday},
		Fee:                quote.PercentFee(1000),
		DepositBasisPoints: 2500,
		Currency:           "GBP",
		SecurityDeposit:    money.New(50000),
		MinLeadDays:        2,
		MaxAdvanceMonths:   18,
		BalanceDueDays:     42,
	})
	s.Require().NoError(err)
	s.queries = queries.NewQuoteQueries(s.store, s.avail, calc, s.challenge, s.clk)

	p := builder.NewPropertyBuilder().BuildDomain()
	s.store.AddProperty(p)
	s.propertyID = p.ID()
}

func (s *QuoteQueriesSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *QuoteQueriesSuite) TestPreview() {
	s.Run("prices each night and splits deposit and balance", func() {
		s.avail.EXPECT().UnavailableRanges(gomock.Any(), s.propertyID, mustRange("2026-05-04", "2026-07-08")).
			Return([]availability.DateRange{mustRange("2026-06-01", "2026-06-04")}, nil)

		view, err := s.queries.Preview(s.ctx, s.propertyID, mustRange("2026-06-04", "2026-06-07"), 4)
		s.Require().NoError(err)

		s.Equal(3, view.Nights)
		s.Equal([]queries.NightView{
			{Date: "2026-06-04", Weekend: false, Rate: 10000},
			{Date: "2026-06-05", Weekend: true, Rate: 15000},
			{Date: "2026-06-06", Weekend: true, Rate: 15000},
		}, view.Breakdown)
		s.Equal(int64(40000), view.Subtotal)
		s.Equal(int64(4000), view.Fee)
		s.Equal(int64(44000), view.Total)
		s.Equal(int64(11000), view.DepositAmount)
		s.Equal(int64(33000), view.BalanceAmount)
		s.Equal("2026-04-23", view.BalanceDueDate)
		s.Equal(int64(50000), view.SecurityDeposit)
		s.Equal("GBP", view.Currency)
	})

	s.Run("balance due never falls before today", func() {
		s.avail.EXPECT().UnavailableRanges(gomock.Any(), s.propertyID, gomock.Any()).Return(nil, nil)

		view, err := s.queries.Preview(s.ctx, s.propertyID, mustRange("2026-03-20", "2026-03-22"), 2)
		s.Require().NoError(err)
		s.Equal("2026-03-01", view.BalanceDueDate)
	})

	s.Run("overlap with unavailable dates", func() {
		s.avail.EXPECT().UnavailableRanges(gomock.Any(), s.propertyID, gomock.Any()).
			Return([]availability.DateRange{mustRange("2026-07-10", "2026-07-12")}, nil)

		_, err := s.queries.Preview(s.ctx, s.propertyID, mustRange("2026-07-11", "2026-07-14"), 2)
		s.True(errs.Is(err, errs.ErrDateUnavailable))
	})

	s.Run("booking window", func() {
		_, err := s.queries.Preview(s.ctx, s.propertyID, mustRange("2026-03-02", "2026-03-05"), 2)
		s.ErrorIs(err, quote.ErrTooSoon)

		_, err = s.queries.Preview(s.ctx, s.propertyID, mustRange("2027-09-02", "2027-09-05"), 2)
		s.ErrorIs(err, quote.ErrTooFarAhead)
	})

	s.Run("capacity", func() {
		_, err := s.queries.Preview(s.ctx, s.propertyID, mustRange("2026-09-07", "2026-09-09"), 7)
		s.True(errs.Is(err, errs.ErrCapacityExceeded))
	})

	s.Run("unknown property", func() {
		_, err := s.queries.Preview(s.ctx, uuid.New(), mustRange("2026-09-07", "2026-09-09"), 2)
		s.True(errs.Is(err, errs.ErrNotFound))
	})
}

func (s *QuoteQueriesSuite) TestChallenge() {
	view := s.queries.Challenge(s.ctx)
	s.Equal(s.challenge.Token(now), view.Token)
	s.Equal(int64(10), view.WindowSecs)
	s.True(now.Equal(view.ServerTime))
	s.True(s.challenge.Verify(view.Token, now.Add(5*time.Second)))
}
