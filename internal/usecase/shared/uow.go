package shared

import (
	"context"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/payment"
	"booking-engine/internal/domain/property"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: repositories bound to the pool, for single-statement reads outside a transaction
	Reads() Repositories
}

type Repositories interface {
	Properties() PropertyRepository
	Availability() AvailabilityRepository
	Bookings() BookingRepository
	Payments() PaymentRepository
	GatewayEvents() GatewayEventRepository
}

type Tx interface {
	Repositories
}

type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
	// LockByID takes the per-property row lock that serialises date-holding writes.
	LockByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

type AvailabilityRepository interface {
	ListOverlapping(ctx context.Context, propertyID uuid.UUID, window availability.DateRange) ([]*availability.Entry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*availability.Entry, error)
	FindByBooking(ctx context.Context, bookingID uuid.UUID) (*availability.Entry, error)
	Create(ctx context.Context, e *availability.Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error)
	DeleteExpiredHolds(ctx context.Context, now time.Time) (int64, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// Update persists status and payment links and appends drained transitions to the history.
	Update(ctx context.Context, b *booking.Booking) error
	History(ctx context.Context, id uuid.UUID) ([]booking.Transition, error)
	ListDueForBalance(ctx context.Context, checkInBefore time.Time, limit int) ([]uuid.UUID, error)
	ListStaleDepositRequests(ctx context.Context, updatedBefore time.Time, limit int) ([]uuid.UUID, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, r *payment.Record) error
	Update(ctx context.Context, r *payment.Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*payment.Record, error)
	LockByReference(ctx context.Context, reference string) (*payment.Record, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*payment.Record, error)
}

type GatewayEventRepository interface {
	// MarkProcessed records the event id and reports false when it was already recorded.
	MarkProcessed(ctx context.Context, ev payment.GatewayEvent, receivedAt time.Time) (bool, error)
}
