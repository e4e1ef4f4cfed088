package repository

import (
	"context"

	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/property"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const propertyColumns = `id, name, midweek_rate, weekend_rate, max_guests, calendar_feed_url, created_at, updated_at`

type PropertyRepository struct {
	db db.DBTX
}

func NewPropertyRepository(dbtx db.DBTX) *PropertyRepository {
	return &PropertyRepository{db: dbtx}
}

func (r *PropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	row := r.db.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	p, err := scanProperty(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find property", err)
	}
	return p, nil
}

// LockByID blocks concurrent writers that claim dates on the same property until commit.
func (r *PropertyRepository) LockByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	row := r.db.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR UPDATE`, id)
	p, err := scanProperty(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock property", err)
	}
	return p, nil
}

// Create is used by seeding and tests; properties are owned by the listing service.
func (r *PropertyRepository) Create(ctx context.Context, p *property.Property) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO properties (id, name, midweek_rate, weekend_rate, max_guests, calendar_feed_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID(), p.Name(), p.MidweekRate().Minor(), p.WeekendRate().Minor(), p.MaxGuests(),
		p.CalendarFeedURL(), p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create property", err)
	}
	return nil
}

func scanProperty(row pgx.Row) (*property.Property, error) {
	var (
		id                   uuid.UUID
		name, feedURL        string
		midweek, weekend     int64
		maxGuests            int32
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &name, &midweek, &weekend, &maxGuests, &feedURL, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return property.ReconstructProperty(
		id, name,
		money.New(midweek), money.New(weekend),
		int(maxGuests), feedURL,
		createdAt.Time, updatedAt.Time,
	), nil
}
