//go:build unit || e2e

package builder

import (
	"time"

	reqdto "booking-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

// QuoteRequestBuilder describes a form post that passes every screening check at RenderedAt+10s.
type QuoteRequestBuilder struct {
	PropertyID uuid.UUID
	CheckIn    string
	CheckOut   string
	Guests     int
	Name       string
	Email      string
	Phone      string
	RenderedAt time.Time
	Challenge  string
	Clicks     int
	Keystrokes int
}

func NewQuoteRequestBuilder() *QuoteRequestBuilder {
	return &QuoteRequestBuilder{
		PropertyID: uuid.New(),
		CheckIn:    "2026-06-05",
		CheckOut:   "2026-06-07",
		Guests:     2,
		Name:       "Alex Guest",
		Email:      "alex@example.co.uk",
		Phone:      "+44 7700 900123",
		RenderedAt: time.Date(2026, 3, 1, 8, 59, 50, 0, time.UTC),
		Clicks:     3,
		Keystrokes: 48,
	}
}

func (q *QuoteRequestBuilder) With(mutate func(*QuoteRequestBuilder)) *QuoteRequestBuilder {
	mutate(q)
	return q
}

func (q *QuoteRequestBuilder) WithProperty(id uuid.UUID) *QuoteRequestBuilder {
	q.PropertyID = id
	return q
}

func (q *QuoteRequestBuilder) WithStay(from, to string) *QuoteRequestBuilder {
	q.CheckIn, q.CheckOut = from, to
	return q
}

func (q *QuoteRequestBuilder) WithChallenge(token string) *QuoteRequestBuilder {
	q.Challenge = token
	return q
}

func (q *QuoteRequestBuilder) RenderedBefore(at time.Time, d time.Duration) *QuoteRequestBuilder {
	q.RenderedAt = at.Add(-d)
	return q
}

func (q *QuoteRequestBuilder) BuildDTO() reqdto.QuoteRequest {
	return reqdto.QuoteRequest{
		PropertyID: q.PropertyID,
		CheckIn:    q.CheckIn,
		CheckOut:   q.CheckOut,
		Guests:     q.Guests,
		Contact: reqdto.ContactRequest{
			Name:  q.Name,
			Email: q.Email,
			Phone: q.Phone,
		},
		FormRenderedAt: q.RenderedAt.UnixMilli(),
		ChallengeToken: q.Challenge,
		Clicks:         q.Clicks,
		Keystrokes:     q.Keystrokes,
	}
}

type EntryRequestBuilder struct {
	Kind      string
	From      string
	To        string
	Notes     string
	ExpiresAt *time.Time
}

func NewEntryRequestBuilder() *EntryRequestBuilder {
	return &EntryRequestBuilder{
		Kind:  "blackout",
		From:  "2026-12-24",
		To:    "2026-12-27",
		Notes: "family christmas",
	}
}

func (e *EntryRequestBuilder) With(mutate func(*EntryRequestBuilder)) *EntryRequestBuilder {
	mutate(e)
	return e
}

func (e *EntryRequestBuilder) BuildDTO() reqdto.CreateEntryRequest {
	return reqdto.CreateEntryRequest{
		Kind:      e.Kind,
		From:      e.From,
		To:        e.To,
		Notes:     e.Notes,
		ExpiresAt: e.ExpiresAt,
	}
}
