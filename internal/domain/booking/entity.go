package booking

import (
	"strings"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/quote"
	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrContactRequired   = errs.Mark(errs.New("guest name and email are required"), errs.ErrValidation)
	ErrInvalidTransition = errs.ErrInvalidTransition
)

type Contact struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

func (c Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" {
		return ErrContactRequired
	}
	return nil
}

type Amounts struct {
	Subtotal money.Money
	Fee      money.Money
	Deposit  money.Money
	Balance  money.Money
	Total    money.Money
	Currency string
}

func AmountsOf(q quote.Quote) Amounts {
	return Amounts{
		Subtotal: q.Subtotal(),
		Fee:      q.Fee(),
		Deposit:  q.Deposit(),
		Balance:  q.Balance(),
		Total:    q.Total(),
		Currency: q.Currency(),
	}
}

// Transition records one applied status change.
type Transition struct {
	From   Status
	To     Status
	Reason string
	At     time.Time
}

type Booking struct {
	id               uuid.UUID
	propertyID       uuid.UUID
	contact          Contact
	stay             availability.DateRange
	guests           int
	status           Status
	amounts          Amounts
	depositPaymentID *uuid.UUID
	balancePaymentID *uuid.UUID
	balanceDueDate   time.Time
	createdAt        time.Time
	updatedAt        time.Time

	pending []Transition
}

// NewFromQuote creates a booking in quote_issued, the only initial state.
func NewFromQuote(propertyID uuid.UUID, contact Contact, q quote.Quote, balanceDueDate, now time.Time) (*Booking, error) {
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	return &Booking{
		id:             uuid.New(),
		propertyID:     propertyID,
		contact:        contact,
		stay:           q.Stay(),
		guests:         q.Guests(),
		status:         StatusQuoteIssued,
		amounts:        AmountsOf(q),
		balanceDueDate: balanceDueDate,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructBooking(
	id, propertyID uuid.UUID,
	contact Contact,
	stay availability.DateRange,
	guests int,
	status Status,
	amounts Amounts,
	depositPaymentID, balancePaymentID *uuid.UUID,
	balanceDueDate time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		propertyID:       propertyID,
		contact:          contact,
		stay:             stay,
		guests:           guests,
		status:           status,
		amounts:          amounts,
		depositPaymentID: depositPaymentID,
		balancePaymentID: balancePaymentID,
		balanceDueDate:   balanceDueDate,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// TransitionTo moves to target when the edge is legal.
// Re-applying the current status is a no-op and reports changed=false.
func (b *Booking) TransitionTo(target Status, reason string, now time.Time) (changed bool, err error) {
	if b.status == target {
		return false, nil
	}
	if !b.status.CanTransitionTo(target) {
		return false, errs.Markf(ErrInvalidTransition, "booking %s: %s -> %s not allowed", b.id, b.status, target)
	}
	b.pending = append(b.pending, Transition{From: b.status, To: target, Reason: reason, At: now})
	b.status = target
	b.updatedAt = now
	return true, nil
}

// DrainTransitions hands the transitions applied since load to the repository and forgets them.
func (b *Booking) DrainTransitions() []Transition {
	out := b.pending
	b.pending = nil
	return out
}

func (b *Booking) AttachDepositPayment(id uuid.UUID) {
	b.depositPaymentID = &id
}

func (b *Booking) AttachBalancePayment(id uuid.UUID) {
	b.balancePaymentID = &id
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) PropertyID() uuid.UUID        { return b.propertyID }
func (b *Booking) Contact() Contact             { return b.contact }
func (b *Booking) Stay() availability.DateRange { return b.stay }
func (b *Booking) Guests() int                  { return b.guests }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) Amounts() Amounts             { return b.amounts }
func (b *Booking) DepositPaymentID() *uuid.UUID { return b.depositPaymentID }
func (b *Booking) BalancePaymentID() *uuid.UUID { return b.balancePaymentID }
func (b *Booking) BalanceDueDate() time.Time    { return b.balanceDueDate }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
