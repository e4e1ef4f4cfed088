package request

import (
	"strings"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/risk"
	"booking-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type ContactRequest struct {
	Name    string `json:"name" binding:"max=200"`
	Email   string `json:"email" binding:"max=254"`
	Phone   string `json:"phone" binding:"max=50"`
	Message string `json:"message" binding:"max=2000"`
}

// Contact fields are screened by the risk scorer rather than binding, so a bot missing them
// is rejected the same way as any other.
type QuoteRequest struct {
	PropertyID uuid.UUID      `json:"property_id" binding:"required"`
	CheckIn    string         `json:"check_in" binding:"required,date"`
	CheckOut   string         `json:"check_out" binding:"required,date"`
	Guests     int            `json:"guests" binding:"required,min=1"`
	Contact    ContactRequest `json:"contact"`

	Website        string `json:"website"`
	FormRenderedAt int64  `json:"form_rendered_at"`
	ChallengeToken string `json:"challenge_token"`
	Clicks         int    `json:"clicks" binding:"min=0"`
	Keystrokes     int    `json:"keystrokes" binding:"min=0"`
}

func (r QuoteRequest) ToCommand(ip, userAgent string, receivedAt time.Time) (commands.QuoteRequest, error) {
	stay, err := availability.ParseDateRange(r.CheckIn, r.CheckOut)
	if err != nil {
		return commands.QuoteRequest{}, err
	}

	contact := booking.Contact{
		Name:    strings.TrimSpace(r.Contact.Name),
		Email:   strings.TrimSpace(r.Contact.Email),
		Phone:   strings.TrimSpace(r.Contact.Phone),
		Message: strings.TrimSpace(r.Contact.Message),
	}

	var renderedAt time.Time
	if r.FormRenderedAt > 0 {
		renderedAt = time.UnixMilli(r.FormRenderedAt)
	}

	return commands.QuoteRequest{
		PropertyID: r.PropertyID,
		Stay:       stay,
		Guests:     r.Guests,
		Contact:    contact,
		Submission: risk.Submission{
			Honeypot:   r.Website,
			RenderedAt: renderedAt,
			Challenge:  r.ChallengeToken,
			Clicks:     r.Clicks,
			Keystrokes: r.Keystrokes,
			Name:       contact.Name,
			Email:      contact.Email,
			Phone:      contact.Phone,
		},
		Request: risk.RequestContext{
			IP:         ip,
			UserAgent:  userAgent,
			ReceivedAt: receivedAt,
		},
	}, nil
}

type QuotePreviewQuery struct {
	CheckIn  string `form:"check_in" binding:"required,date"`
	CheckOut string `form:"check_out" binding:"required,date"`
	Guests   int    `form:"guests" binding:"required,min=1"`
}

func (q QuotePreviewQuery) Stay() (availability.DateRange, error) {
	return availability.ParseDateRange(q.CheckIn, q.CheckOut)
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=200"`
}

func (r CancelRequest) ReasonOrDefault() string {
	if s := strings.TrimSpace(r.Reason); s != "" {
		return s
	}
	return "cancelled by operator"
}
