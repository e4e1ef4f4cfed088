//go:build unit

package quote_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/quote"
	"booking-engine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CalculatorTestSuite struct {
	suite.Suite
	card   quote.RateCard
	policy quote.Policy
}

func (s *CalculatorTestSuite) SetupTest() {
	s.card = quote.RateCard{
		Midweek:   money.New(10000),
		Weekend:   money.New(15000),
		MaxGuests: 12,
	}
	s.policy = quote.Policy{
		WeekendDays:        []time.Weekday{time.Friday, time.Saturday},
		Fee:                quote.FixedFee(money.Zero()),
		DepositBasisPoints: 2500,
		Currency:           "GBP",
		MinLeadDays:        2,
		MaxAdvanceMonths:   18,
		BalanceDueDays:     42,
	}
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(CalculatorTestSuite))
}

func (s *CalculatorTestSuite) calculator() *quote.Calculator {
	c, err := quote.NewCalculator(s.policy)
	s.Require().NoError(err)
	return c
}

func stay(from, to string) availability.DateRange {
	r, err := availability.ParseDateRange(from, to)
	if err != nil {
		panic(err)
	}
	return r
}

func (s *CalculatorTestSuite) TestFridayToSundayWeekendStay() {
	// 2026-06-05 is a Friday
	q, err := s.calculator().Compute(s.card, stay("2026-06-05", "2026-06-07"), 4)
	s.Require().NoError(err)

	s.Equal(2, q.Nights())
	s.Equal(int64(30000), q.Subtotal().Minor())
	s.Equal(int64(0), q.Fee().Minor())
	s.Equal(int64(30000), q.Total().Minor())
	s.Equal(int64(7500), q.Deposit().Minor())
	s.Equal(int64(22500), q.Balance().Minor())
	s.Equal("GBP", q.Currency())
	for _, n := range q.Breakdown() {
		s.True(n.Weekend)
	}
}

func (s *CalculatorTestSuite) TestMixedWeek() {
	// Thursday to Monday: Thu midweek, Fri and Sat weekend, Sun midweek
	q, err := s.calculator().Compute(s.card, stay("2026-06-04", "2026-06-08"), 2)
	s.Require().NoError(err)

	s.Equal(4, q.Nights())
	s.Equal(int64(10000+15000+15000+10000), q.Subtotal().Minor())
	breakdown := q.Breakdown()
	s.Equal(time.Thursday, breakdown[0].Date.Weekday())
	s.False(breakdown[0].Weekend)
	s.True(breakdown[1].Weekend)
	s.True(breakdown[2].Weekend)
	s.False(breakdown[3].Weekend)
}

func (s *CalculatorTestSuite) TestFeeModels() {
	s.Run("fixed fee is added once", func() {
		s.policy.Fee = quote.FixedFee(money.New(5000))
		q, err := s.calculator().Compute(s.card, stay("2026-06-01", "2026-06-04"), 2)
		s.Require().NoError(err)
		s.Equal(int64(30000), q.Subtotal().Minor())
		s.Equal(int64(5000), q.Fee().Minor())
		s.Equal(int64(35000), q.Total().Minor())
		s.Equal(int64(8750), q.Deposit().Minor())
	})

	s.Run("percentage fee is a share of the subtotal", func() {
		s.policy.Fee = quote.PercentFee(1250)
		q, err := s.calculator().Compute(s.card, stay("2026-06-01", "2026-06-04"), 2)
		s.Require().NoError(err)
		s.Equal(int64(3750), q.Fee().Minor())
		s.Equal(int64(33750), q.Total().Minor())
		// 33750 * 0.25 = 8437.5 rounds half-up
		s.Equal(int64(8438), q.Deposit().Minor())
		s.Equal(int64(25312), q.Balance().Minor())
	})
}

func (s *CalculatorTestSuite) TestDepositPlusBalanceEqualsTotal() {
	rates := []int64{9999, 10001, 12345, 33333, 15049}
	fees := []quote.Fee{quote.FixedFee(money.New(4999)), quote.PercentFee(333), quote.PercentFee(0)}
	deposits := []int64{0, 1, 2500, 3333, 10000}

	for _, rate := range rates {
		for _, fee := range fees {
			for _, dep := range deposits {
				s.policy.Fee = fee
				s.policy.DepositBasisPoints = dep
				card := quote.RateCard{Midweek: money.New(rate), Weekend: money.New(rate + 777), MaxGuests: 10}
				q, err := s.calculator().Compute(card, stay("2026-06-01", "2026-06-11"), 3)
				s.Require().NoError(err)
				s.Equal(q.Total().Minor(), q.Deposit().Add(q.Balance()).Minor())
				s.GreaterOrEqual(q.Balance().Minor(), int64(0))
			}
		}
	}
}

func (s *CalculatorTestSuite) TestDeterministic() {
	c := s.calculator()
	a, err := c.Compute(s.card, stay("2026-06-03", "2026-06-10"), 6)
	s.Require().NoError(err)
	b, err := c.Compute(s.card, stay("2026-06-03", "2026-06-10"), 6)
	s.Require().NoError(err)
	s.Equal(a, b)
}

func (s *CalculatorTestSuite) TestRejections() {
	c := s.calculator()

	_, err := c.Compute(s.card, stay("2026-06-01", "2026-06-02"), 13)
	s.ErrorIs(err, quote.ErrCapacityExceeded)
	s.True(errs.Is(err, errs.ErrCapacityExceeded))

	_, err = c.Compute(s.card, stay("2026-06-01", "2026-06-02"), 0)
	s.True(errs.Is(err, errs.ErrValidation))

	_, err = c.Compute(s.card, availability.DateRange{}, 2)
	s.ErrorIs(err, availability.ErrInvalidRange)
}

func TestPolicyBookingWindow(t *testing.T) {
	p := quote.Policy{MinLeadDays: 2, MaxAdvanceMonths: 18, BalanceDueDays: 42, Currency: "GBP"}
	today := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, p.CheckBookingWindow(today, stay("2026-06-02", "2026-06-05")), quote.ErrTooSoon)
	assert.NoError(t, p.CheckBookingWindow(today, stay("2026-06-03", "2026-06-05")))
	assert.NoError(t, p.CheckBookingWindow(today, stay("2027-12-01", "2027-12-05")))
	assert.ErrorIs(t, p.CheckBookingWindow(today, stay("2027-12-02", "2027-12-05")), quote.ErrTooFarAhead)

	assert.Equal(t, time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC), p.BalanceDueDate(today, stay("2026-08-31", "2026-09-03")))
	assert.Equal(t, today, p.BalanceDueDate(today, stay("2026-06-10", "2026-06-12")))
}

func TestNewFee(t *testing.T) {
	f, err := quote.NewFee("fixed", 5000, 0)
	require.NoError(t, err)
	assert.Equal(t, quote.FeeFixed, f.Kind())

	f, err = quote.NewFee("percent", 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, quote.FeePercent, f.Kind())

	_, err = quote.NewFee("tiered", 0, 0)
	assert.ErrorIs(t, err, quote.ErrInvalidPolicy)

	_, err = quote.NewCalculator(quote.Policy{DepositBasisPoints: 12000, Currency: "GBP"})
	assert.ErrorIs(t, err, quote.ErrInvalidPolicy)
}
