package repository

import (
	"context"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const entryColumns = `id, property_id, kind, start_date, end_date, notes, booking_id, expires_at, created_at`

type AvailabilityRepository struct {
	db db.DBTX
}

func NewAvailabilityRepository(dbtx db.DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{db: dbtx}
}

func (r *AvailabilityRepository) ListOverlapping(ctx context.Context, propertyID uuid.UUID, window availability.DateRange) ([]*availability.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM availability_entries
		WHERE property_id = $1 AND start_date < $3 AND end_date > $2
		ORDER BY start_date, end_date`,
		propertyID, pgconv.DateToPgtype(window.Start()), pgconv.DateToPgtype(window.End()),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list availability entries", err)
	}
	defer rows.Close()

	var out []*availability.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan availability entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list availability entries", err)
	}
	return out, nil
}

func (r *AvailabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*availability.Entry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM availability_entries WHERE id = $1`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find availability entry", err)
	}
	return e, nil
}

func (r *AvailabilityRepository) FindByBooking(ctx context.Context, bookingID uuid.UUID) (*availability.Entry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+entryColumns+` FROM availability_entries WHERE booking_id = $1`, bookingID)
	e, err := scanEntry(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booked entry", err)
	}
	return e, nil
}

// Create reports KindConflict when a booked range overlaps another booked range.
func (r *AvailabilityRepository) Create(ctx context.Context, e *availability.Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO availability_entries (id, property_id, kind, start_date, end_date, notes, booking_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID(), e.PropertyID(), string(e.Kind()),
		pgconv.DateToPgtype(e.Dates().Start()), pgconv.DateToPgtype(e.Dates().End()),
		e.Notes(), pgconv.UUIDPtrToPgtype(e.BookingID()), pgconv.TimePtrToPgtype(e.ExpiresAt()), e.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create availability entry", err)
	}
	return nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM availability_entries WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete availability entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "availability entry not found")
	}
	return nil
}

func (r *AvailabilityRepository) DeleteByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM availability_entries WHERE booking_id = $1`, bookingID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to release booked entry", err)
	}
	return tag.RowsAffected(), nil
}

func (r *AvailabilityRepository) DeleteExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM availability_entries WHERE kind = 'hold' AND expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired holds", err)
	}
	return tag.RowsAffected(), nil
}

func scanEntry(row pgx.Row) (*availability.Entry, error) {
	var (
		id, propertyID uuid.UUID
		kind, notes    string
		start, end     pgtype.Date
		bookingID      pgtype.UUID
		expiresAt      pgtype.Timestamptz
		createdAt      pgtype.Timestamptz
	)
	if err := row.Scan(&id, &propertyID, &kind, &start, &end, &notes, &bookingID, &expiresAt, &createdAt); err != nil {
		return nil, err
	}
	dates, err := availability.NewDateRange(pgconv.DateFromPgtype(start), pgconv.DateFromPgtype(end))
	if err != nil {
		return nil, err
	}
	return availability.ReconstructEntry(
		id, propertyID, availability.Kind(kind), dates, notes,
		pgconv.UUIDPtrFromPgtype(bookingID), pgconv.TimePtrFromPgtype(expiresAt), createdAt.Time,
	), nil
}
