package response

import (
	"booking-engine/internal/domain/payment"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type CheckoutResponse struct {
	BookingID     uuid.UUID `json:"booking_id"`
	PaymentID     uuid.UUID `json:"payment_id"`
	Purpose       string    `json:"purpose"`
	BookingStatus string    `json:"booking_status"`
	SessionURL    string    `json:"session_url"`
}

func FromCheckoutResult(r *commands.CheckoutResult) *CheckoutResponse {
	return &CheckoutResponse{
		BookingID:     r.BookingID,
		PaymentID:     r.PaymentID,
		Purpose:       string(r.Purpose),
		BookingStatus: r.BookingStatus.String(),
		SessionURL:    r.SessionURL,
	}
}

type WebhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}

func FromOutcome(o payment.Outcome) *WebhookResponse {
	return &WebhookResponse{Received: true, Outcome: string(o)}
}
