package availability

import (
	"time"

	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type Kind string

const (
	KindBlackout Kind = "blackout"
	KindHold     Kind = "hold"
	KindBooked   Kind = "booked"
)

var (
	ErrInvalidKind          = errs.Mark(errs.New("invalid availability entry kind"), errs.ErrValidation)
	ErrBookedEntryNotManual = errs.Mark(errs.New("booked entries are maintained by the booking lifecycle"), errs.ErrValidation)
	ErrNotesTooLong         = errs.Mark(errs.New("notes must be at most 500 characters"), errs.ErrValidation)
	ErrExpiryOnlyForHolds   = errs.Mark(errs.New("only holds can expire"), errs.ErrValidation)
)

const maxNotesLength = 500

func (k Kind) IsValid() bool {
	switch k {
	case KindBlackout, KindHold, KindBooked:
		return true
	}
	return false
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// Entry is an owner-entered or lifecycle-maintained unavailable range.
// Entries are never edited. Holds are deleted on expiry, booked entries when the booking releases its dates.
type Entry struct {
	id         uuid.UUID
	propertyID uuid.UUID
	kind       Kind
	dates      DateRange
	notes      string
	bookingID  *uuid.UUID
	expiresAt  *time.Time
	createdAt  time.Time
}

// NewManualEntry builds a blackout or hold entered by an owner.
func NewManualEntry(propertyID uuid.UUID, kind Kind, dates DateRange, notes string, expiresAt *time.Time, now time.Time) (*Entry, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if kind == KindBooked {
		return nil, ErrBookedEntryNotManual
	}
	if expiresAt != nil && kind != KindHold {
		return nil, ErrExpiryOnlyForHolds
	}
	if len([]rune(notes)) > maxNotesLength {
		return nil, ErrNotesTooLong
	}
	return &Entry{
		id:         uuid.New(),
		propertyID: propertyID,
		kind:       kind,
		dates:      dates,
		notes:      notes,
		expiresAt:  expiresAt,
		createdAt:  now,
	}, nil
}

// NewBookedEntry mirrors a booking's stay.
func NewBookedEntry(propertyID, bookingID uuid.UUID, dates DateRange, now time.Time) *Entry {
	id := bookingID
	return &Entry{
		id:         uuid.New(),
		propertyID: propertyID,
		kind:       KindBooked,
		dates:      dates,
		bookingID:  &id,
		createdAt:  now,
	}
}

func ReconstructEntry(
	id, propertyID uuid.UUID,
	kind Kind,
	dates DateRange,
	notes string,
	bookingID *uuid.UUID,
	expiresAt *time.Time,
	createdAt time.Time,
) *Entry {
	return &Entry{
		id:         id,
		propertyID: propertyID,
		kind:       kind,
		dates:      dates,
		notes:      notes,
		bookingID:  bookingID,
		expiresAt:  expiresAt,
		createdAt:  createdAt,
	}
}

func (e *Entry) IsExpired(now time.Time) bool {
	return e.expiresAt != nil && !now.Before(*e.expiresAt)
}

func (e *Entry) ID() uuid.UUID         { return e.id }
func (e *Entry) PropertyID() uuid.UUID { return e.propertyID }
func (e *Entry) Kind() Kind            { return e.kind }
func (e *Entry) Dates() DateRange      { return e.dates }
func (e *Entry) Notes() string         { return e.notes }
func (e *Entry) BookingID() *uuid.UUID { return e.bookingID }
func (e *Entry) ExpiresAt() *time.Time { return e.expiresAt }
func (e *Entry) CreatedAt() time.Time  { return e.createdAt }

// Ranges extracts the date ranges of entries that are still in force at now.
func Ranges(entries []*Entry, now time.Time) []DateRange {
	out := make([]DateRange, 0, len(entries))
	for _, e := range entries {
		if e.IsExpired(now) {
			continue
		}
		out = append(out, e.dates)
	}
	return out
}
