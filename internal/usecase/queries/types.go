package queries

import (
	"time"

	"github.com/google/uuid"
)

// Amounts are in the currency's minor unit. Dates are YYYY-MM-DD, end exclusive.

type RangeView struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type AvailabilityView struct {
	PropertyID  uuid.UUID   `json:"property_id"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	Unavailable []RangeView `json:"unavailable"`
	FeedSkipped bool        `json:"feed_skipped,omitempty"`
}

type NightView struct {
	Date    string `json:"date"`
	Weekend bool   `json:"weekend"`
	Rate    int64  `json:"rate"`
}

type QuoteView struct {
	PropertyID      uuid.UUID   `json:"property_id"`
	CheckIn         string      `json:"check_in"`
	CheckOut        string      `json:"check_out"`
	Guests          int         `json:"guests"`
	Nights          int         `json:"nights"`
	Breakdown       []NightView `json:"breakdown"`
	Subtotal        int64       `json:"subtotal"`
	Fee             int64       `json:"fee"`
	DepositAmount   int64       `json:"deposit_amount"`
	BalanceAmount   int64       `json:"balance_amount"`
	Total           int64       `json:"total"`
	Currency        string      `json:"currency"`
	BalanceDueDate  string      `json:"balance_due_date"`
	SecurityDeposit int64       `json:"security_deposit"`
}

type PaymentView struct {
	ID               uuid.UUID `json:"id"`
	Purpose          string    `json:"purpose"`
	Status           string    `json:"status"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	GatewayReference string    `json:"gateway_reference,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type TransitionView struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}

type BookingView struct {
	ID             uuid.UUID        `json:"id"`
	PropertyID     uuid.UUID        `json:"property_id"`
	GuestName      string           `json:"guest_name"`
	GuestEmail     string           `json:"guest_email"`
	CheckIn        string           `json:"check_in"`
	CheckOut       string           `json:"check_out"`
	Guests         int              `json:"guests"`
	Status         string           `json:"status"`
	Subtotal       int64            `json:"subtotal"`
	Fee            int64            `json:"fee"`
	DepositAmount  int64            `json:"deposit_amount"`
	BalanceAmount  int64            `json:"balance_amount"`
	Total          int64            `json:"total"`
	Currency       string           `json:"currency"`
	BalanceDueDate string           `json:"balance_due_date"`
	Payments       []PaymentView    `json:"payments"`
	History        []TransitionView `json:"history"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type ChallengeView struct {
	Token      string    `json:"token"`
	ServerTime time.Time `json:"server_time"`
	WindowSecs int64     `json:"window_seconds"`
}
