//go:build unit

package payment_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/money"
	"booking-engine/internal/domain/payment"
	"booking-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newRecord(t *testing.T) *payment.Record {
	t.Helper()
	r, err := payment.NewRecord(uuid.New(), payment.PurposeDeposit, money.New(7500), "GBP", now)
	require.NoError(t, err)
	return r
}

func TestNewRecord(t *testing.T) {
	r := newRecord(t)
	assert.Equal(t, payment.StatusCreated, r.Status())
	assert.False(t, r.HasSession())
	assert.True(t, r.Open())

	_, err := payment.NewRecord(uuid.New(), payment.Purpose("tip"), money.New(1), "GBP", now)
	assert.ErrorIs(t, err, payment.ErrInvalidPurpose)

	_, err = payment.NewRecord(uuid.New(), payment.PurposeBalance, money.Zero(), "GBP", now)
	assert.ErrorIs(t, err, payment.ErrInvalidAmount)
}

func TestRecordLifecycle(t *testing.T) {
	r := newRecord(t)
	later := now.Add(time.Minute)

	require.NoError(t, r.MarkPending("cs_123", "https://pay.example/cs_123", later))
	assert.Equal(t, payment.StatusPending, r.Status())
	assert.Equal(t, "cs_123", r.GatewayReference())
	assert.True(t, r.HasSession())

	err := r.MarkPending("cs_456", "", later)
	assert.True(t, errs.Is(err, errs.ErrInvalidTransition))

	changed, err := r.Apply(payment.StatusSucceeded, "evt_1", later)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "evt_1", r.LastEventID())
	assert.False(t, r.Open())

	changed, err = r.Apply(payment.StatusSucceeded, "evt_2", later)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "evt_1", r.LastEventID())

	_, err = r.Apply(payment.StatusFailed, "evt_3", later)
	assert.True(t, errs.Is(err, errs.ErrInvalidTransition))

	changed, err = r.Apply(payment.StatusRefunded, "evt_4", later)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestEventTargetStatus(t *testing.T) {
	cases := map[payment.EventType]payment.Status{
		payment.EventCheckoutCompleted: payment.StatusSucceeded,
		payment.EventCheckoutFailed:    payment.StatusFailed,
		payment.EventCheckoutExpired:   payment.StatusFailed,
		payment.EventRefundSucceeded:   payment.StatusRefunded,
	}
	for typ, want := range cases {
		got, ok := payment.GatewayEvent{Type: typ}.TargetStatus()
		assert.True(t, ok, typ)
		assert.Equal(t, want, got, typ)
	}

	_, ok := payment.GatewayEvent{Type: "customer.created"}.TargetStatus()
	assert.False(t, ok)
}
