package commands

import (
	"context"
	"time"

	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/payment"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	// IdempotencyKey makes a retried call return the session opened by the first one.
	IdempotencyKey string
	BookingID      uuid.UUID
	PaymentID      uuid.UUID
	Purpose        payment.Purpose
	Amount         money.Money
	Currency       string
	Description    string
	CustomerEmail  string
}

type CheckoutSession struct {
	Reference string
	URL       string
}

type RefundRequest struct {
	IdempotencyKey string
	Reference      string
	Amount         money.Money
}

// PaymentGateway is the outbound half of the hosted checkout provider.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	Refund(ctx context.Context, req RefundRequest) (string, error)
}

// SubmissionGuard keeps per-IP state across replicas: a blocklist and a rolling submission counter.
type SubmissionGuard interface {
	IsBlocked(ctx context.Context, ip string) (bool, error)
	Block(ctx context.Context, ip string, ttl time.Duration) error
	// Allow counts one submission and reports whether the IP is still within limit for window.
	Allow(ctx context.Context, ip string, limit int64, window time.Duration) (bool, error)
}
