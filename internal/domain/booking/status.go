package booking

import "booking-engine/internal/pkg/errs"

type Status string

const (
	StatusQuoteIssued      Status = "quote_issued"
	StatusDepositRequested Status = "deposit_requested"
	StatusDepositPaid      Status = "deposit_paid"
	StatusDepositFailed    Status = "deposit_failed"
	StatusBalanceRequested Status = "balance_requested"
	StatusBalanceFailed    Status = "balance_failed"
	StatusConfirmed        Status = "confirmed"
	StatusCancelled        Status = "cancelled"
	StatusRefunded         Status = "refunded"
)

var ErrInvalidStatus = errs.Mark(errs.New("invalid booking status"), errs.ErrValidation)

// transitions lists every legal edge. Anything else is an InvalidTransition.
var transitions = map[Status][]Status{
	StatusQuoteIssued:      {StatusDepositRequested, StatusCancelled},
	StatusDepositRequested: {StatusDepositPaid, StatusDepositFailed, StatusCancelled},
	StatusDepositFailed:    {StatusDepositRequested, StatusCancelled},
	StatusDepositPaid:      {StatusBalanceRequested, StatusCancelled},
	StatusBalanceRequested: {StatusConfirmed, StatusBalanceFailed, StatusCancelled},
	StatusBalanceFailed:    {StatusBalanceRequested, StatusCancelled},
	StatusConfirmed:        {StatusRefunded},
	StatusCancelled:        {StatusRefunded},
	StatusRefunded:         {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports guest-facing finality: confirmed, cancelled and refunded.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// HoldsDates reports whether a booking in this status owns a booked availability entry.
func (s Status) HoldsDates() bool {
	switch s {
	case StatusDepositRequested, StatusDepositPaid, StatusBalanceRequested, StatusBalanceFailed, StatusConfirmed:
		return true
	}
	return false
}

// Cancellable statuses are every non-terminal one.
func (s Status) Cancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}
