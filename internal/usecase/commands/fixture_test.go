//go:build unit

package commands_test

import (
	"context"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/payment"
	"booking-engine/internal/domain/property"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/shared"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/memstore"
	commandsmock "booking-engine/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var fixtureNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// bookingSuite wires the payment commands to an in-memory store and a mocked gateway.
type bookingSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	store     *memstore.Store
	clk       *clock.MockClock
	gateway   *commandsmock.MockPaymentGateway
	lifecycle *commands.Lifecycle
	payments  commands.PaymentCommands
	property  *property.Property
}

func (s *bookingSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.store = memstore.New()
	s.clk = clock.NewMockClock(fixtureNow)
	s.gateway = commandsmock.NewMockPaymentGateway(s.ctrl)
	s.lifecycle = commands.NewLifecycle(s.clk)
	s.payments = commands.NewPaymentCommands(s.store, s.lifecycle, s.gateway, s.clk, commands.PaymentOptions{Timeout: time.Second})

	s.property = builder.NewPropertyBuilder().BuildDomain()
	s.store.AddProperty(s.property)
}

func (s *bookingSuite) TearDownTest() {
	s.ctrl.Finish()
}

// seedQuote stores a quote_issued booking for the default Fri-Sun stay.
func (s *bookingSuite) seedQuote(mutate ...func(*builder.BookingBuilder)) *booking.Booking {
	b := builder.NewBookingBuilder().WithProperty(s.property.ID())
	for _, m := range mutate {
		b.With(m)
	}
	bk := b.BuildDomain()
	s.store.AddBooking(bk)
	return bk
}

// expectSession makes the gateway open one session whose reference is derived from the payment id.
func (s *bookingSuite) expectSession() *gomock.Call {
	return s.gateway.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req commands.CheckoutRequest) (commands.CheckoutSession, error) {
			return commands.CheckoutSession{
				Reference: "cs_" + req.PaymentID.String(),
				URL:       "https://pay.example.com/c/" + req.PaymentID.String(),
			}, nil
		})
}

func (s *bookingSuite) event(typ payment.EventType, reference string) payment.GatewayEvent {
	return payment.GatewayEvent{ID: "evt_" + uuid.NewString(), Type: typ, Reference: reference, CreatedAt: s.clk.Now()}
}

// payDeposit drives a quote_issued booking to deposit_paid and returns the deposit record.
func (s *bookingSuite) payDeposit(id uuid.UUID) *payment.Record {
	s.expectSession()
	res, err := s.payments.CreateDepositIntent(s.ctx, id)
	s.Require().NoError(err)

	outcome, err := s.payments.HandleGatewayEvent(s.ctx, s.event(payment.EventCheckoutCompleted, res.Reference))
	s.Require().NoError(err)
	s.Require().Equal(payment.OutcomeApplied, outcome)
	return s.store.Payment(res.PaymentID)
}

func (s *bookingSuite) bookedEntries() []*availability.Entry {
	var out []*availability.Entry
	for _, e := range s.store.Entries(s.property.ID()) {
		if e.Kind() == availability.KindBooked {
			out = append(out, e)
		}
	}
	return out
}

func requestDeposit(l *commands.Lifecycle, id uuid.UUID) func(context.Context, shared.Tx) error {
	return func(ctx context.Context, tx shared.Tx) error {
		_, err := l.RequestDeposit(ctx, tx, id)
		return err
	}
}
