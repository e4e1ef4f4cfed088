package payment

import (
	"time"

	"booking-engine/internal/domain/money"
	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type Purpose string

const (
	PurposeDeposit Purpose = "deposit"
	PurposeBalance Purpose = "balance"
)

func (p Purpose) IsValid() bool {
	return p == PurposeDeposit || p == PurposeBalance
}

type Status string

const (
	StatusCreated   Status = "created"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

var transitions = map[Status][]Status{
	StatusCreated:   {StatusPending, StatusSucceeded, StatusFailed},
	StatusPending:   {StatusSucceeded, StatusFailed},
	StatusSucceeded: {StatusRefunded},
	StatusFailed:    {},
	StatusRefunded:  {},
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

var (
	ErrInvalidPurpose = errs.Mark(errs.New("invalid payment purpose"), errs.ErrValidation)
	ErrInvalidStatus  = errs.Mark(errs.New("invalid payment status"), errs.ErrValidation)
	ErrInvalidAmount  = errs.Mark(errs.New("payment amount must be positive"), errs.ErrValidation)
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(s)
	if !p.IsValid() {
		return "", ErrInvalidPurpose
	}
	return p, nil
}

// Record is one outbound payment request. It exists before the gateway is contacted.
type Record struct {
	id               uuid.UUID
	bookingID        uuid.UUID
	purpose          Purpose
	status           Status
	amount           money.Money
	currency         string
	gatewayReference string
	sessionURL       string
	refundReference  string
	lastEventID      string
	createdAt        time.Time
	updatedAt        time.Time
}

func NewRecord(bookingID uuid.UUID, purpose Purpose, amount money.Money, currency string, now time.Time) (*Record, error) {
	if !purpose.IsValid() {
		return nil, ErrInvalidPurpose
	}
	if amount.Minor() <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Record{
		id:        uuid.New(),
		bookingID: bookingID,
		purpose:   purpose,
		status:    StatusCreated,
		amount:    amount,
		currency:  currency,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructRecord(
	id, bookingID uuid.UUID,
	purpose Purpose,
	status Status,
	amount money.Money,
	currency, gatewayReference, sessionURL, refundReference, lastEventID string,
	createdAt, updatedAt time.Time,
) *Record {
	return &Record{
		id:               id,
		bookingID:        bookingID,
		purpose:          purpose,
		status:           status,
		amount:           amount,
		currency:         currency,
		gatewayReference: gatewayReference,
		sessionURL:       sessionURL,
		refundReference:  refundReference,
		lastEventID:      lastEventID,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// MarkPending stores the session the gateway opened for this record.
func (r *Record) MarkPending(reference, sessionURL string, now time.Time) error {
	if r.status != StatusCreated {
		return errs.Markf(errs.ErrInvalidTransition, "payment %s: %s -> %s not allowed", r.id, r.status, StatusPending)
	}
	r.gatewayReference = reference
	r.sessionURL = sessionURL
	r.status = StatusPending
	r.updatedAt = now
	return nil
}

// Apply moves the record to target on behalf of gateway event eventID.
// Applying the current status again is a no-op.
func (r *Record) Apply(target Status, eventID string, now time.Time) (changed bool, err error) {
	if r.status == target {
		return false, nil
	}
	if !r.status.CanTransitionTo(target) {
		return false, errs.Markf(errs.ErrInvalidTransition, "payment %s: %s -> %s not allowed", r.id, r.status, target)
	}
	r.status = target
	r.lastEventID = eventID
	r.updatedAt = now
	return true, nil
}

func (r *Record) SetRefundReference(ref string, now time.Time) {
	r.refundReference = ref
	r.updatedAt = now
}

// HasSession reports whether the gateway call behind this record completed.
func (r *Record) HasSession() bool {
	return r.gatewayReference != ""
}

// Open records can still be paid by the guest.
func (r *Record) Open() bool {
	return r.status == StatusCreated || r.status == StatusPending
}

func (r *Record) ID() uuid.UUID            { return r.id }
func (r *Record) BookingID() uuid.UUID     { return r.bookingID }
func (r *Record) Purpose() Purpose         { return r.purpose }
func (r *Record) Status() Status           { return r.status }
func (r *Record) Amount() money.Money      { return r.amount }
func (r *Record) Currency() string         { return r.currency }
func (r *Record) GatewayReference() string { return r.gatewayReference }
func (r *Record) SessionURL() string       { return r.sessionURL }
func (r *Record) RefundReference() string  { return r.refundReference }
func (r *Record) LastEventID() string      { return r.lastEventID }
func (r *Record) CreatedAt() time.Time     { return r.createdAt }
func (r *Record) UpdatedAt() time.Time     { return r.updatedAt }
