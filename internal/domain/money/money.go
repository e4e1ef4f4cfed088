package money

import (
	"fmt"

	"booking-engine/internal/pkg/errs"
)

var ErrNegativeAmount = errs.Mark(errs.New("amount cannot be negative"), errs.ErrValidation)

const basisPointsPerUnit = 10_000

// Money is an amount in the currency's minor unit (pence for GBP).
type Money struct {
	minor int64
}

func New(minor int64) Money {
	return Money{minor: minor}
}

func NewNonNegative(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{minor: minor}, nil
}

func Zero() Money { return Money{} }

func (m Money) Minor() int64 { return m.minor }

func (m Money) IsZero() bool { return m.minor == 0 }

func (m Money) Add(other Money) Money {
	return Money{minor: m.minor + other.minor}
}

func (m Money) Sub(other Money) Money {
	return Money{minor: m.minor - other.minor}
}

func (m Money) Mul(n int64) Money {
	return Money{minor: m.minor * n}
}

// ApplyBasisPoints returns m * bp / 10000 rounded half-up to the minor unit.
// Integer arithmetic keeps the result identical across platforms.
func (m Money) ApplyBasisPoints(bp int64) Money {
	num := m.minor * bp
	q := num / basisPointsPerUnit
	r := num % basisPointsPerUnit
	if r < 0 {
		r = -r
	}
	if r*2 >= basisPointsPerUnit {
		if num < 0 {
			q--
		} else {
			q++
		}
	}
	return Money{minor: q}
}

func (m Money) String() string {
	sign := ""
	v := m.minor
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
