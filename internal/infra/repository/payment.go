package repository

import (
	"context"
	"time"

	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/payment"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"
	"booking-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const paymentColumns = `id, booking_id, purpose, status, amount, currency, gateway_reference,
	session_url, refund_reference, gateway_event_id, created_at, updated_at`

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Record) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payment_records (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID(), p.BookingID(), string(p.Purpose()), string(p.Status()), p.Amount().Minor(), p.Currency(),
		pgconv.TextOrNull(p.GatewayReference()), p.SessionURL(), p.RefundReference(), p.LastEventID(),
		p.CreatedAt(), p.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment record", err)
	}
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Record) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payment_records
		SET status = $2, gateway_reference = $3, session_url = $4, refund_reference = $5,
		    gateway_event_id = $6, updated_at = $7
		WHERE id = $1`,
		p.ID(), string(p.Status()), pgconv.TextOrNull(p.GatewayReference()), p.SessionURL(),
		p.RefundReference(), p.LastEventID(), p.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment record", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "payment record not found")
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Record, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payment_records WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment record", err)
	}
	return p, nil
}

func (r *PaymentRepository) LockByReference(ctx context.Context, reference string) (*payment.Record, error) {
	if reference == "" {
		return nil, infra.NewRepoErr(infra.KindNotFound, "empty gateway reference")
	}
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payment_records WHERE gateway_reference = $1 FOR UPDATE`, reference)
	p, err := scanPayment(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment by reference", err)
	}
	return p, nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*payment.Record, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payment_records WHERE booking_id = $1 ORDER BY created_at, id`, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payment records", err)
	}
	defer rows.Close()

	var out []*payment.Record
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment record", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list payment records", err)
	}
	return out, nil
}

func scanPayment(row pgx.Row) (*payment.Record, error) {
	var (
		id, bookingID                      uuid.UUID
		purpose, status, currency          string
		amount                             int64
		reference                          pgtype.Text
		sessionURL, refundRef, lastEventID string
		createdAt, updatedAt               time.Time
	)
	err := row.Scan(&id, &bookingID, &purpose, &status, &amount, &currency, &reference,
		&sessionURL, &refundRef, &lastEventID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	return payment.ReconstructRecord(
		id, bookingID,
		payment.Purpose(purpose), payment.Status(status),
		money.New(amount), currency,
		pgconv.StringFromPgtype(reference), sessionURL, refundRef, lastEventID,
		createdAt.UTC(), updatedAt.UTC(),
	), nil
}

type GatewayEventRepository struct {
	db db.DBTX
}

func NewGatewayEventRepository(dbtx db.DBTX) *GatewayEventRepository {
	return &GatewayEventRepository{db: dbtx}
}

func (r *GatewayEventRepository) MarkProcessed(ctx context.Context, ev payment.GatewayEvent, receivedAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO processed_gateway_events (event_id, event_type, reference, received_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING`,
		ev.ID, string(ev.Type), ev.Reference, receivedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to record gateway event", err)
	}
	return tag.RowsAffected() == 1, nil
}
