package api

import (
	"net/http"

	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	quoteCmds commands.QuoteCommands
	payments  commands.PaymentCommands
	quotes    queries.QuoteQueries
	bookings  queries.BookingQueries
	clock     clock.Clock
}

func NewBookingHandler(
	quoteCmds commands.QuoteCommands,
	payments commands.PaymentCommands,
	quotes queries.QuoteQueries,
	bookings queries.BookingQueries,
	clk clock.Clock,
) *BookingHandler {
	return &BookingHandler{
		quoteCmds: quoteCmds,
		payments:  payments,
		quotes:    quotes,
		bookings:  bookings,
		clock:     clk,
	}
}

// @Summary Request a quote
// @Description Screens the submission, prices the stay and creates a booking in quote_issued
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 201 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /bookings/quote [post]
func (h *BookingHandler) RequestQuote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd, err := req.ToCommand(c.ClientIP(), c.Request.UserAgent(), h.clock.Now())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	result, err := h.quoteCmds.RequestQuote(c.Request.Context(), cmd)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromQuoteResult(result))
}

// @Summary Preview a quote
// @Description Prices a stay without creating a booking
// @Tags bookings
// @Produce json
// @Param id path string true "Property ID"
// @Param check_in query string true "Check-in (YYYY-MM-DD)"
// @Param check_out query string true "Check-out (YYYY-MM-DD)"
// @Param guests query int true "Guests"
// @Success 200 {object} queries.QuoteView
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /properties/{id}/quote [get]
func (h *BookingHandler) PreviewQuote(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property id", nil)
		return
	}
	var q reqdto.QuotePreviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	stay, err := q.Stay()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	view, err := h.quotes.Preview(c.Request.Context(), propertyID, stay, q.Guests)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Form challenge
// @Description Current challenge token for forms that fetch it instead of computing it
// @Tags bookings
// @Produce json
// @Success 200 {object} queries.ChallengeView
// @Router /bookings/challenge [get]
func (h *BookingHandler) Challenge(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, h.quotes.Challenge(c.Request.Context()))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} queries.BookingView
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}
	view, err := h.bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Cancel booking
// @Description Cancels the booking, releases its dates and starts refunds for captured payments
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelRequest false "Reason"
// @Success 200 {object} resdto.CancelResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}
	var req reqdto.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}

	result, err := h.payments.Cancel(c.Request.Context(), id, req.ReasonOrDefault())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCancelResult(result))
}

// @Summary Request balance
// @Description Moves a deposit_paid booking to balance_requested and opens the balance checkout
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /bookings/{id}/balance-request [post]
func (h *BookingHandler) RequestBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}

	result, err := h.payments.CreateBalanceIntent(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutResult(result))
}
