package property

import (
	"time"

	"booking-engine/internal/domain/money"

	"github.com/google/uuid"
)

// Property is the read-only subset of a listing the booking engine needs.
type Property struct {
	id              uuid.UUID
	name            string
	midweekRate     money.Money
	weekendRate     money.Money
	maxGuests       int
	calendarFeedURL string
	createdAt       time.Time
	updatedAt       time.Time
}

func ReconstructProperty(
	id uuid.UUID,
	name string,
	midweekRate, weekendRate money.Money,
	maxGuests int,
	calendarFeedURL string,
	createdAt, updatedAt time.Time,
) *Property {
	return &Property{
		id:              id,
		name:            name,
		midweekRate:     midweekRate,
		weekendRate:     weekendRate,
		maxGuests:       maxGuests,
		calendarFeedURL: calendarFeedURL,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (p *Property) HasCalendarFeed() bool {
	return p.calendarFeedURL != ""
}

func (p *Property) ID() uuid.UUID {
	return p.id
}

func (p *Property) Name() string {
	return p.name
}

func (p *Property) MidweekRate() money.Money {
	return p.midweekRate
}

func (p *Property) WeekendRate() money.Money {
	return p.weekendRate
}

func (p *Property) MaxGuests() int {
	return p.maxGuests
}

func (p *Property) CalendarFeedURL() string {
	return p.calendarFeedURL
}

func (p *Property) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Property) UpdatedAt() time.Time {
	return p.updatedAt
}
