//go:build unit

package api_test

import (
	"bytes"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/payment"
	"booking-engine/internal/handler/api"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"
	"booking-engine/tests/common/httptest"
	commandsmock "booking-engine/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// stubDecoder accepts bodies signed with the "valid" header value.
type stubDecoder struct {
	event payment.GatewayEvent
	seen  []byte
}

func (d *stubDecoder) Decode(body []byte, header http.Header) (payment.GatewayEvent, error) {
	d.seen = body
	if header.Get("Gateway-Signature") != "valid" {
		return payment.GatewayEvent{}, errs.Mark(errs.New("signature mismatch"), errs.ErrUnauthorized)
	}
	return d.event, nil
}

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockPayments *commandsmock.MockPaymentCommands
	decoder      *stubDecoder
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockPayments = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.decoder = &stubDecoder{event: payment.GatewayEvent{
		ID:        "evt_1",
		Type:      payment.EventCheckoutCompleted,
		Reference: "cs_1",
	}}
	h := api.NewPaymentHandler(s.mockPayments, s.decoder)

	s.router.POST("/payments/checkout-session", h.CreateCheckoutSession)
	s.router.POST("/payments/webhook", h.Webhook)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) TestCreateCheckoutSession() {
	url := "/payments/checkout-session"
	bookingID := uuid.New()

	s.Run("success", func() {
		s.mockPayments.EXPECT().StartCheckout(gomock.Any(), bookingID).Return(&commands.CheckoutResult{
			BookingID:     bookingID,
			PaymentID:     uuid.New(),
			Purpose:       payment.PurposeDeposit,
			BookingStatus: booking.StatusDepositRequested,
			SessionURL:    "https://pay.example.com/c/1",
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"booking_id": bookingID}, "")
		var got resdto.CheckoutResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal("deposit", got.Purpose)
		s.Equal("https://pay.example.com/c/1", got.SessionURL)
	})

	s.Run("error: missing booking id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: unknown booking", func() {
		s.mockPayments.EXPECT().StartCheckout(gomock.Any(), bookingID).Return(nil, queries.ErrBookingNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"booking_id": bookingID}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "booking not found")
	})

	s.Run("error: gateway failure", func() {
		s.mockPayments.EXPECT().StartCheckout(gomock.Any(), bookingID).
			Return(nil, errs.Mark(errs.New("gateway returned 503"), errs.ErrGateway))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"booking_id": bookingID}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "Payment provider unavailable")
	})
}

func (s *PaymentHandlerTestSuite) webhook(signature string) *nethttptest.ResponseRecorder {
	req := nethttptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBufferString(`{"id":"evt_1"}`))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Gateway-Signature", signature)
	}
	w := nethttptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *PaymentHandlerTestSuite) TestWebhook() {
	s.Run("success: acknowledges with the outcome", func() {
		s.mockPayments.EXPECT().HandleGatewayEvent(gomock.Any(), s.decoder.event).Return(payment.OutcomeApplied, nil)

		rec := s.webhook("valid")
		var got resdto.WebhookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.True(got.Received)
		s.Equal("applied", got.Outcome)
		s.Equal(`{"id":"evt_1"}`, string(s.decoder.seen))
	})

	s.Run("success: duplicates are acknowledged too", func() {
		s.mockPayments.EXPECT().HandleGatewayEvent(gomock.Any(), gomock.Any()).Return(payment.OutcomeDuplicate, nil)

		rec := s.webhook("valid")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "duplicate")
	})

	s.Run("error: bad signature never reaches the usecase", func() {
		rec := s.webhook("forged")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid webhook")

		rec = s.webhook("")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: processing failure asks for redelivery", func() {
		s.mockPayments.EXPECT().HandleGatewayEvent(gomock.Any(), gomock.Any()).
			Return(payment.Outcome(""), errs.Mark(errs.New("deadlock"), errs.ErrDatabaseOperationFailed))

		rec := s.webhook("valid")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Event processing failed")
	})
}
