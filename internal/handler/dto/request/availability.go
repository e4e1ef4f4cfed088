package request

import (
	"strings"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/usecase/commands"
)

type AvailabilityQuery struct {
	From string `form:"from" binding:"omitempty,date"`
	To   string `form:"to" binding:"omitempty,date"`
}

// Window returns nil bounds for omitted parameters.
func (q AvailabilityQuery) Window() (from, to *time.Time, err error) {
	if q.From != "" {
		d, err := availability.ParseDate(q.From)
		if err != nil {
			return nil, nil, err
		}
		from = &d
	}
	if q.To != "" {
		d, err := availability.ParseDate(q.To)
		if err != nil {
			return nil, nil, err
		}
		to = &d
	}
	return from, to, nil
}

type CreateEntryRequest struct {
	Kind      string     `json:"kind" binding:"required,oneof=blackout hold"`
	From      string     `json:"from" binding:"required,date"`
	To        string     `json:"to" binding:"required,date"`
	Notes     string     `json:"notes" binding:"max=500"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (r CreateEntryRequest) ToInput() (commands.CreateEntryInput, error) {
	kind, err := availability.ParseKind(r.Kind)
	if err != nil {
		return commands.CreateEntryInput{}, err
	}
	dates, err := availability.ParseDateRange(r.From, r.To)
	if err != nil {
		return commands.CreateEntryInput{}, err
	}
	return commands.CreateEntryInput{
		Kind:      kind,
		Dates:     dates,
		Notes:     strings.TrimSpace(r.Notes),
		ExpiresAt: r.ExpiresAt,
	}, nil
}
