//go:build unit

package commands_test

import (
	"testing"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"
	"booking-engine/tests/common/builder"
	commandsmock "booking-engine/tests/mock/commands"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type MaintenanceCommandsSuite struct {
	bookingSuite
	paymentsMock *commandsmock.MockPaymentCommands
}

func TestMaintenanceCommandsSuite(t *testing.T) {
	suite.Run(t, new(MaintenanceCommandsSuite))
}

func (s *MaintenanceCommandsSuite) SetupTest() {
	s.bookingSuite.SetupTest()
	s.paymentsMock = commandsmock.NewMockPaymentCommands(s.ctrl)
}

func (s *MaintenanceCommandsSuite) maintenance(payments commands.PaymentCommands) commands.MaintenanceCommands {
	return commands.NewMaintenanceCommands(s.store, s.lifecycle, payments, s.clk, commands.MaintenanceOptions{
		BalanceDueDays: 42,
		DepositHoldTTL: 24 * time.Hour,
		BatchSize:      10,
	})
}

func (s *MaintenanceCommandsSuite) TestRequestDueBalances() {
	s.Run("requests balances inside the due window and keeps going past failures", func() {
		paid := func(from, to string) *booking.Booking {
			return s.seedQuote(func(b *builder.BookingBuilder) {
				b.WithStay(from, to).WithStatus(booking.StatusDepositPaid)
			})
		}
		first := paid("2026-04-06", "2026-04-08")
		failing := paid("2026-04-10", "2026-04-12")
		paid("2026-06-05", "2026-06-07")
		s.seedQuote(func(b *builder.BookingBuilder) { b.WithStay("2026-04-01", "2026-04-03") })

		gomock.InOrder(
			s.paymentsMock.EXPECT().CreateBalanceIntent(gomock.Any(), first.ID()).Return(&commands.CheckoutResult{}, nil),
			s.paymentsMock.EXPECT().CreateBalanceIntent(gomock.Any(), failing.ID()).Return(nil, errs.ErrGatewayTimeout),
		)

		n, err := s.maintenance(s.paymentsMock).RequestDueBalances(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, n)
	})
}

func (s *MaintenanceCommandsSuite) TestRequestDueBalancesOpensCheckout() {
	bk := s.seedQuote(func(b *builder.BookingBuilder) { b.WithStay("2026-04-03", "2026-04-05") })
	s.payDeposit(bk.ID())
	s.expectSession()

	n, err := s.maintenance(s.payments).RequestDueBalances(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
	s.Equal(booking.StatusBalanceRequested, s.store.Booking(bk.ID()).Status())
	s.NotNil(s.store.Booking(bk.ID()).BalancePaymentID())
}

func (s *MaintenanceCommandsSuite) TestSweep() {
	expiry := s.clk.Now().Add(time.Hour)
	dates, err := availability.ParseDateRange("2026-05-01", "2026-05-03")
	s.Require().NoError(err)
	hold, err := availability.NewManualEntry(s.property.ID(), availability.KindHold, dates, "owner viewing", &expiry, s.clk.Now())
	s.Require().NoError(err)
	s.store.AddEntry(hold)

	stale := s.seedQuote(func(b *builder.BookingBuilder) { b.WithStay("2026-05-08", "2026-05-10") })
	s.Require().NoError(s.store.Within(s.ctx, requestDeposit(s.lifecycle, stale.ID())))

	s.clk.Add(2 * time.Hour)
	fresh := s.seedQuote(func(b *builder.BookingBuilder) { b.WithStay("2026-05-15", "2026-05-17") })
	s.Require().NoError(s.store.Within(s.ctx, requestDeposit(s.lifecycle, fresh.ID())))

	s.clk.Add(23 * time.Hour)
	res, err := s.maintenance(s.paymentsMock).Sweep(s.ctx)
	s.Require().NoError(err)

	s.Equal(int64(1), res.ExpiredHolds)
	s.Equal(1, res.ExpiredDeposits)
	s.Equal(booking.StatusDepositFailed, s.store.Booking(stale.ID()).Status())
	s.Equal(booking.StatusDepositRequested, s.store.Booking(fresh.ID()).Status())

	booked := s.bookedEntries()
	s.Require().Len(booked, 1)
	s.Equal(fresh.ID(), *booked[0].BookingID())
}
