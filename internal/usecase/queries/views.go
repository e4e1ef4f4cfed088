package queries

import (
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/payment"
	"booking-engine/internal/domain/quote"

	"github.com/google/uuid"
)

func QuoteViewOf(propertyID uuid.UUID, q quote.Quote, balanceDue time.Time, policy quote.Policy) *QuoteView {
	nights := make([]NightView, 0, q.Nights())
	for _, n := range q.Breakdown() {
		nights = append(nights, NightView{
			Date:    n.Date.Format(availability.DateLayout),
			Weekend: n.Weekend,
			Rate:    n.Rate.Minor(),
		})
	}
	return &QuoteView{
		PropertyID:      propertyID,
		CheckIn:         q.Stay().Start().Format(availability.DateLayout),
		CheckOut:        q.Stay().End().Format(availability.DateLayout),
		Guests:          q.Guests(),
		Nights:          q.Nights(),
		Breakdown:       nights,
		Subtotal:        q.Subtotal().Minor(),
		Fee:             q.Fee().Minor(),
		DepositAmount:   q.Deposit().Minor(),
		BalanceAmount:   q.Balance().Minor(),
		Total:           q.Total().Minor(),
		Currency:        q.Currency(),
		BalanceDueDate:  balanceDue.Format(availability.DateLayout),
		SecurityDeposit: policy.SecurityDeposit.Minor(),
	}
}

func PaymentViewOf(r *payment.Record) PaymentView {
	return PaymentView{
		ID:               r.ID(),
		Purpose:          string(r.Purpose()),
		Status:           string(r.Status()),
		Amount:           r.Amount().Minor(),
		Currency:         r.Currency(),
		GatewayReference: r.GatewayReference(),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}

func BookingViewOf(b *booking.Booking, payments []*payment.Record, history []booking.Transition) *BookingView {
	amounts := b.Amounts()
	view := &BookingView{
		ID:             b.ID(),
		PropertyID:     b.PropertyID(),
		GuestName:      b.Contact().Name,
		GuestEmail:     b.Contact().Email,
		CheckIn:        b.Stay().Start().Format(availability.DateLayout),
		CheckOut:       b.Stay().End().Format(availability.DateLayout),
		Guests:         b.Guests(),
		Status:         string(b.Status()),
		Subtotal:       amounts.Subtotal.Minor(),
		Fee:            amounts.Fee.Minor(),
		DepositAmount:  amounts.Deposit.Minor(),
		BalanceAmount:  amounts.Balance.Minor(),
		Total:          amounts.Total.Minor(),
		Currency:       amounts.Currency,
		BalanceDueDate: b.BalanceDueDate().Format(availability.DateLayout),
		Payments:       make([]PaymentView, 0, len(payments)),
		History:        make([]TransitionView, 0, len(history)),
		CreatedAt:      b.CreatedAt(),
		UpdatedAt:      b.UpdatedAt(),
	}
	for _, p := range payments {
		view.Payments = append(view.Payments, PaymentViewOf(p))
	}
	for _, t := range history {
		view.History = append(view.History, TransitionView{
			From:   string(t.From),
			To:     string(t.To),
			Reason: t.Reason,
			At:     t.At,
		})
	}
	return view
}
