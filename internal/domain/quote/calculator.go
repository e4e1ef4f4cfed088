package quote

import (
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/property"
	"booking-engine/internal/pkg/errs"
)

var (
	ErrInvalidGuests    = errs.Mark(errs.New("guest count must be at least 1"), errs.ErrValidation)
	ErrCapacityExceeded = errs.Mark(errs.New("guest count exceeds the property's maximum"), errs.ErrCapacityExceeded)
)

type RateCard struct {
	Midweek   money.Money
	Weekend   money.Money
	MaxGuests int
}

func RateCardOf(p *property.Property) RateCard {
	return RateCard{
		Midweek:   p.MidweekRate(),
		Weekend:   p.WeekendRate(),
		MaxGuests: p.MaxGuests(),
	}
}

type NightPrice struct {
	Date    time.Time
	Weekend bool
	Rate    money.Money
}

type Quote struct {
	stay     availability.DateRange
	guests   int
	nights   []NightPrice
	subtotal money.Money
	fee      money.Money
	deposit  money.Money
	balance  money.Money
	total    money.Money
	currency string
}

func (q Quote) Stay() availability.DateRange { return q.stay }
func (q Quote) Guests() int                  { return q.guests }
func (q Quote) Nights() int                  { return len(q.nights) }
func (q Quote) Breakdown() []NightPrice      { return append([]NightPrice(nil), q.nights...) }
func (q Quote) Subtotal() money.Money        { return q.subtotal }
func (q Quote) Fee() money.Money             { return q.fee }
func (q Quote) Deposit() money.Money         { return q.deposit }
func (q Quote) Balance() money.Money         { return q.balance }
func (q Quote) Total() money.Money           { return q.total }
func (q Quote) Currency() string             { return q.currency }

// Calculator prices stays. It holds no mutable state and reads no clock, so equal inputs give equal quotes.
type Calculator struct {
	policy Policy
}

func NewCalculator(policy Policy) (*Calculator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{policy: policy}, nil
}

func (c *Calculator) Policy() Policy {
	return c.policy
}

func (c *Calculator) Compute(card RateCard, stay availability.DateRange, guests int) (Quote, error) {
	if stay.IsZero() {
		return Quote{}, availability.ErrInvalidRange
	}
	if guests < 1 {
		return Quote{}, ErrInvalidGuests
	}
	if guests > card.MaxGuests {
		return Quote{}, ErrCapacityExceeded
	}

	days := stay.Days()
	nights := make([]NightPrice, 0, len(days))
	subtotal := money.Zero()
	for _, d := range days {
		weekend := c.policy.isWeekend(d.Weekday())
		rate := card.Midweek
		if weekend {
			rate = card.Weekend
		}
		nights = append(nights, NightPrice{Date: d, Weekend: weekend, Rate: rate})
		subtotal = subtotal.Add(rate)
	}

	fee := c.policy.Fee.amountFor(subtotal)
	total := subtotal.Add(fee)
	deposit := total.ApplyBasisPoints(c.policy.DepositBasisPoints)

	return Quote{
		stay:     stay,
		guests:   guests,
		nights:   nights,
		subtotal: subtotal,
		fee:      fee,
		deposit:  deposit,
		balance:  total.Sub(deposit),
		total:    total,
		currency: c.policy.Currency,
	}, nil
}
