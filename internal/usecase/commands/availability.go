package commands

import (
	"context"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/queries"
	"booking-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrEntryNotFound = errs.Mark(errs.New("availability entry not found"), errs.ErrNotFound)

type CreateEntryInput struct {
	Kind      availability.Kind
	Dates     availability.DateRange
	Notes     string
	ExpiresAt *time.Time
}

// AvailabilityCommands manages owner blackouts and holds. Booked entries belong to the lifecycle.
type AvailabilityCommands interface {
	CreateEntry(ctx context.Context, propertyID uuid.UUID, in CreateEntryInput) (*availability.Entry, error)
	DeleteEntry(ctx context.Context, propertyID, entryID uuid.UUID) error
}

type availabilityCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewAvailabilityCommands(uow shared.UnitOfWork, clk clock.Clock) AvailabilityCommands {
	return &availabilityCommandsImpl{uow: uow, clock: clk}
}

func (c *availabilityCommandsImpl) CreateEntry(ctx context.Context, propertyID uuid.UUID, in CreateEntryInput) (*availability.Entry, error) {
	entry, err := availability.NewManualEntry(propertyID, in.Kind, in.Dates, in.Notes, in.ExpiresAt, c.clock.Now())
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Properties().LockByID(ctx, propertyID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return queries.ErrPropertyNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Availability().Create(ctx, entry); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (c *availabilityCommandsImpl) DeleteEntry(ctx context.Context, propertyID, entryID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entry, err := tx.Availability().FindByID(ctx, entryID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrEntryNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if entry.PropertyID() != propertyID {
			return ErrEntryNotFound
		}
		if entry.Kind() == availability.KindBooked {
			return availability.ErrBookedEntryNotManual
		}
		if err := tx.Availability().Delete(ctx, entryID); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
