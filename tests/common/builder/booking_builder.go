//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/money"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID               uuid.UUID
	PropertyID       uuid.UUID
	Contact          booking.Contact
	From             string
	To               string
	Guests           int
	Status           booking.Status
	Subtotal         int64
	Fee              int64
	Deposit          int64
	Currency         string
	DepositPaymentID *uuid.UUID
	BalancePaymentID *uuid.UUID
	BalanceDueDate   time.Time
	CreatedAt        time.Time
}

// NewBookingBuilder describes a Fri-Sun stay priced 150+150 with a 25% deposit.
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:         uuid.New(),
		PropertyID: uuid.New(),
		Contact: booking.Contact{
			Name:  "Alex Guest",
			Email: "alex@example.co.uk",
			Phone: "+44 7700 900123",
		},
		From:           "2026-06-05",
		To:             "2026-06-07",
		Guests:         2,
		Status:         booking.StatusQuoteIssued,
		Subtotal:       30000,
		Deposit:        7500,
		Currency:       "GBP",
		BalanceDueDate: time.Date(2026, 4, 24, 0, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithStatus(s booking.Status) *BookingBuilder {
	b.Status = s
	return b
}

func (b *BookingBuilder) WithProperty(id uuid.UUID) *BookingBuilder {
	b.PropertyID = id
	return b
}

func (b *BookingBuilder) WithStay(from, to string) *BookingBuilder {
	b.From, b.To = from, to
	return b
}

func (b *BookingBuilder) WithDepositPayment(id uuid.UUID) *BookingBuilder {
	b.DepositPaymentID = &id
	return b
}

func (b *BookingBuilder) WithBalancePayment(id uuid.UUID) *BookingBuilder {
	b.BalancePaymentID = &id
	return b
}

func (b *BookingBuilder) StayRange() availability.DateRange {
	r, err := availability.ParseDateRange(b.From, b.To)
	if err != nil {
		panic(err)
	}
	return r
}

func (b *BookingBuilder) BuildDomain() *booking.Booking {
	total := money.New(b.Subtotal + b.Fee)
	deposit := money.New(b.Deposit)
	return booking.ReconstructBooking(
		b.ID, b.PropertyID, b.Contact, b.StayRange(), b.Guests, b.Status,
		booking.Amounts{
			Subtotal: money.New(b.Subtotal),
			Fee:      money.New(b.Fee),
			Deposit:  deposit,
			Balance:  total.Sub(deposit),
			Total:    total,
			Currency: b.Currency,
		},
		b.DepositPaymentID, b.BalancePaymentID,
		b.BalanceDueDate, b.CreatedAt, b.CreatedAt,
	)
}
