package request

import "github.com/google/uuid"

type CheckoutSessionRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
}
