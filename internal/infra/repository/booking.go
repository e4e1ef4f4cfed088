package repository

import (
	"context"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/money"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, property_id, guest_name, guest_email, guest_phone, guest_message,
	check_in, check_out, guests, status, subtotal, fee, deposit_amount, balance_amount, total_price, currency,
	deposit_payment_id, balance_payment_id, balance_due_date, created_at, updated_at`

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	c := b.Contact()
	a := b.Amounts()
	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		b.ID(), b.PropertyID(), c.Name, c.Email, c.Phone, c.Message,
		pgconv.DateToPgtype(b.Stay().Start()), pgconv.DateToPgtype(b.Stay().End()), b.Guests(), string(b.Status()),
		a.Subtotal.Minor(), a.Fee.Minor(), a.Deposit.Minor(), a.Balance.Minor(), a.Total.Minor(), a.Currency,
		pgconv.UUIDPtrToPgtype(b.DepositPaymentID()), pgconv.UUIDPtrToPgtype(b.BalancePaymentID()),
		pgconv.DateToPgtype(b.BalanceDueDate()), b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return r.appendHistory(ctx, b)
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return b, nil
}

func (r *BookingRepository) LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}
	return b, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET status = $2, deposit_payment_id = $3, balance_payment_id = $4, updated_at = $5
		WHERE id = $1`,
		b.ID(), string(b.Status()),
		pgconv.UUIDPtrToPgtype(b.DepositPaymentID()), pgconv.UUIDPtrToPgtype(b.BalancePaymentID()),
		b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "booking not found")
	}
	return r.appendHistory(ctx, b)
}

func (r *BookingRepository) appendHistory(ctx context.Context, b *booking.Booking) error {
	for _, t := range b.DrainTransitions() {
		_, err := r.db.Exec(ctx, `
			INSERT INTO booking_status_history (booking_id, from_status, to_status, reason, changed_at)
			VALUES ($1, $2, $3, $4, $5)`,
			b.ID(), string(t.From), string(t.To), t.Reason, t.At,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to record booking transition", err)
		}
	}
	return nil
}

func (r *BookingRepository) History(ctx context.Context, id uuid.UUID) ([]booking.Transition, error) {
	rows, err := r.db.Query(ctx, `
		SELECT from_status, to_status, reason, changed_at
		FROM booking_status_history
		WHERE booking_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking history", err)
	}
	defer rows.Close()

	var out []booking.Transition
	for rows.Next() {
		var (
			from, to, reason string
			at               time.Time
		)
		if err := rows.Scan(&from, &to, &reason, &at); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking history", err)
		}
		out = append(out, booking.Transition{
			From:   booking.Status(from),
			To:     booking.Status(to),
			Reason: reason,
			At:     at.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list booking history", err)
	}
	return out, nil
}

func (r *BookingRepository) ListDueForBalance(ctx context.Context, checkInBefore time.Time, limit int) ([]uuid.UUID, error) {
	return r.listIDs(ctx, `
		SELECT id FROM bookings
		WHERE status = 'deposit_paid' AND check_in < $1
		ORDER BY check_in, id
		LIMIT $2`, pgconv.DateToPgtype(checkInBefore), limit)
}

func (r *BookingRepository) ListStaleDepositRequests(ctx context.Context, updatedBefore time.Time, limit int) ([]uuid.UUID, error) {
	return r.listIDs(ctx, `
		SELECT id FROM bookings
		WHERE status = 'deposit_requested' AND updated_at < $1
		ORDER BY updated_at, id
		LIMIT $2`, updatedBefore, limit)
}

func (r *BookingRepository) listIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan booking ids", err)
	}
	return ids, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, propertyID                         uuid.UUID
		name, email, phone, message            string
		checkIn, checkOut, balanceDue          pgtype.Date
		guests                                 int32
		status, currency                       string
		subtotal, fee, deposit, balance, total int64
		depositPaymentID, balancePaymentID     pgtype.UUID
		createdAt, updatedAt                   time.Time
	)
	err := row.Scan(
		&id, &propertyID, &name, &email, &phone, &message,
		&checkIn, &checkOut, &guests, &status, &subtotal, &fee, &deposit, &balance, &total, &currency,
		&depositPaymentID, &balancePaymentID, &balanceDue, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	stay, err := availability.NewDateRange(pgconv.DateFromPgtype(checkIn), pgconv.DateFromPgtype(checkOut))
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		id, propertyID,
		booking.Contact{Name: name, Email: email, Phone: phone, Message: message},
		stay, int(guests), booking.Status(status),
		booking.Amounts{
			Subtotal: money.New(subtotal),
			Fee:      money.New(fee),
			Deposit:  money.New(deposit),
			Balance:  money.New(balance),
			Total:    money.New(total),
			Currency: currency,
		},
		pgconv.UUIDPtrFromPgtype(depositPaymentID), pgconv.UUIDPtrFromPgtype(balancePaymentID),
		pgconv.DateFromPgtype(balanceDue), createdAt.UTC(), updatedAt.UTC(),
	), nil
}
