package response

import (
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type QuoteResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
	*queries.QuoteView
}

func FromQuoteResult(r *commands.QuoteResult) *QuoteResponse {
	return &QuoteResponse{BookingID: r.BookingID, QuoteView: r.Quote}
}

type CancelResponse struct {
	BookingID      uuid.UUID   `json:"booking_id"`
	Status         string      `json:"status"`
	RefundsStarted int         `json:"refunds_started"`
	RefundsPending []uuid.UUID `json:"refunds_pending,omitempty"`
}

func FromCancelResult(r *commands.CancelResult) *CancelResponse {
	return &CancelResponse{
		BookingID:      r.BookingID,
		Status:         r.Status.String(),
		RefundsStarted: r.RefundsStarted,
		RefundsPending: r.RefundsPending,
	}
}
