package response

import (
	"time"

	"booking-engine/internal/domain/availability"

	"github.com/google/uuid"
)

type EntryResponse struct {
	ID         uuid.UUID  `json:"id"`
	PropertyID uuid.UUID  `json:"property_id"`
	Kind       string     `json:"kind"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	Notes      string     `json:"notes,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func FromEntry(e *availability.Entry) *EntryResponse {
	return &EntryResponse{
		ID:         e.ID(),
		PropertyID: e.PropertyID(),
		Kind:       string(e.Kind()),
		From:       e.Dates().Start().Format(availability.DateLayout),
		To:         e.Dates().End().Format(availability.DateLayout),
		Notes:      e.Notes(),
		ExpiresAt:  e.ExpiresAt(),
		CreatedAt:  e.CreatedAt(),
	}
}
