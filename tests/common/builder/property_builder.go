//go:build unit || e2e

package builder

import (
	"time"

	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/property"

	"github.com/google/uuid"
)

type PropertyBuilder struct {
	ID              uuid.UUID
	Name            string
	MidweekRate     int64
	WeekendRate     int64
	MaxGuests       int
	CalendarFeedURL string
	CreatedAt       time.Time
}

func NewPropertyBuilder() *PropertyBuilder {
	return &PropertyBuilder{
		ID:          uuid.New(),
		Name:        "Harbour Cottage",
		MidweekRate: 10000,
		WeekendRate: 15000,
		MaxGuests:   6,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (p *PropertyBuilder) With(mutate func(*PropertyBuilder)) *PropertyBuilder {
	mutate(p)
	return p
}

func (p *PropertyBuilder) WithFeed(url string) *PropertyBuilder {
	p.CalendarFeedURL = url
	return p
}

func (p *PropertyBuilder) BuildDomain() *property.Property {
	return property.ReconstructProperty(
		p.ID, p.Name,
		money.New(p.MidweekRate), money.New(p.WeekendRate),
		p.MaxGuests, p.CalendarFeedURL,
		p.CreatedAt, p.CreatedAt,
	)
}
