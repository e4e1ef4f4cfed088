package api

import (
	"io"
	"log/slog"
	"net/http"

	"booking-engine/internal/domain/payment"
	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const maxWebhookBytes = 1 << 20

// WebhookDecoder authenticates a gateway delivery and decodes it.
type WebhookDecoder interface {
	Decode(body []byte, header http.Header) (payment.GatewayEvent, error)
}

type PaymentHandler struct {
	payments commands.PaymentCommands
	decoder  WebhookDecoder
}

func NewPaymentHandler(payments commands.PaymentCommands, decoder WebhookDecoder) *PaymentHandler {
	return &PaymentHandler{payments: payments, decoder: decoder}
}

// @Summary Create checkout session
// @Description Opens the deposit or balance checkout, whichever the booking's status calls for
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.CheckoutSessionRequest true "Booking"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /payments/checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	var req reqdto.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.payments.StartCheckout(c.Request.Context(), req.BookingID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutResult(result))
}

// @Summary Gateway webhook
// @Description Signed gateway events. Every verified event is acknowledged with 200.
// @Tags payments
// @Accept json
// @Produce json
// @Param Gateway-Signature header string true "t=<unix>,v1=<hex>"
// @Success 200 {object} resdto.WebhookResponse
// @Failure 400 {object} httperr.Response
// @Router /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable body", nil)
		return
	}

	ev, err := h.decoder.Decode(body, c.Request.Header)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "rejected gateway webhook", "error", err.Error())
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid webhook", nil)
		return
	}

	outcome, err := h.payments.HandleGatewayEvent(c.Request.Context(), ev)
	if err != nil {
		// Non-2xx makes the gateway redeliver.
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Event processing failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOutcome(outcome))
}
