package quote

import (
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/money"
	"booking-engine/internal/pkg/errs"
)

type FeeKind string

const (
	FeeFixed   FeeKind = "fixed"
	FeePercent FeeKind = "percent"
)

var (
	ErrInvalidPolicy = errs.New("invalid pricing policy")
	ErrTooSoon       = errs.Mark(errs.New("check-in is too soon"), errs.ErrValidation)
	ErrTooFarAhead   = errs.Mark(errs.New("check-in is too far ahead"), errs.ErrValidation)
)

// Fee is the flat cleaning/service addition: a fixed amount or a share of the nightly subtotal.
type Fee struct {
	kind        FeeKind
	amount      money.Money
	basisPoints int64
}

func FixedFee(amount money.Money) Fee {
	return Fee{kind: FeeFixed, amount: amount}
}

func PercentFee(basisPoints int64) Fee {
	return Fee{kind: FeePercent, basisPoints: basisPoints}
}

func NewFee(kind string, amount, basisPoints int64) (Fee, error) {
	switch FeeKind(kind) {
	case FeeFixed:
		if amount < 0 {
			return Fee{}, errs.Wrap(ErrInvalidPolicy, "fixed fee cannot be negative")
		}
		return FixedFee(money.New(amount)), nil
	case FeePercent:
		if basisPoints < 0 {
			return Fee{}, errs.Wrap(ErrInvalidPolicy, "fee percentage cannot be negative")
		}
		return PercentFee(basisPoints), nil
	default:
		return Fee{}, errs.Wrapf(ErrInvalidPolicy, "unknown fee kind %q", kind)
	}
}

func (f Fee) Kind() FeeKind { return f.kind }

func (f Fee) amountFor(subtotal money.Money) money.Money {
	if f.kind == FeePercent {
		return subtotal.ApplyBasisPoints(f.basisPoints)
	}
	return f.amount
}

type Policy struct {
	WeekendDays        []time.Weekday
	Fee                Fee
	DepositBasisPoints int64
	Currency           string
	SecurityDeposit    money.Money
	MinLeadDays        int
	MaxAdvanceMonths   int
	BalanceDueDays     int
}

func (p Policy) Validate() error {
	if p.DepositBasisPoints < 0 || p.DepositBasisPoints > 10_000 {
		return errs.Wrap(ErrInvalidPolicy, "deposit ratio must be between 0 and 10000 basis points")
	}
	if p.Currency == "" {
		return errs.Wrap(ErrInvalidPolicy, "currency is required")
	}
	if p.MinLeadDays < 0 || p.MaxAdvanceMonths < 0 || p.BalanceDueDays < 0 {
		return errs.Wrap(ErrInvalidPolicy, "booking window values cannot be negative")
	}
	return nil
}

func (p Policy) isWeekend(d time.Weekday) bool {
	for _, w := range p.WeekendDays {
		if w == d {
			return true
		}
	}
	return false
}

// CheckBookingWindow applies the lead-time and advance-booking limits relative to today.
// A zero MaxAdvanceMonths disables the upper bound.
func (p Policy) CheckBookingWindow(today time.Time, stay availability.DateRange) error {
	earliest := today.AddDate(0, 0, p.MinLeadDays)
	if stay.Start().Before(earliest) {
		return ErrTooSoon
	}
	if p.MaxAdvanceMonths > 0 && stay.Start().After(today.AddDate(0, p.MaxAdvanceMonths, 0)) {
		return ErrTooFarAhead
	}
	return nil
}

// BalanceDueDate is BalanceDueDays before check-in, never earlier than today.
func (p Policy) BalanceDueDate(today time.Time, stay availability.DateRange) time.Time {
	due := stay.Start().AddDate(0, 0, -p.BalanceDueDays)
	if due.Before(today) {
		return today
	}
	return due
}
