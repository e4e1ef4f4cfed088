//go:build e2e

package booking_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/handler/dto/request"
	"booking-engine/internal/handler/dto/response"
	"booking-engine/internal/usecase/queries"
	"booking-engine/tests/common/dbtest"
	"booking-engine/tests/common/httptest"
	"booking-engine/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	quoteURL        = "/api/bookings/quote"
	challengeURL    = "/api/bookings/challenge"
	bookingURL      = "/api/bookings/%s"
	cancelURL       = "/api/bookings/%s/cancel"
	balanceURL      = "/api/bookings/%s/balance-request"
	checkoutURL     = "/api/payments/checkout-session"
	webhookURL      = "/api/payments/webhook"
	availabilityURL = "/api/properties/%s/availability"

	browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15"
)

type BookingSuite struct {
	e2e.SharedSuite
	seq int
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// stay returns a check-in offset days from today and the given number of nights.
func stay(offset, nights int) (string, string) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	in := today.AddDate(0, 0, offset)
	return in.Format(availability.DateLayout), in.AddDate(0, 0, nights).Format(availability.DateLayout)
}

func browserHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", browserUA)
	return h
}

// each quote comes from its own address so blocks and rate limits stay per test
func (s *BookingSuite) nextAddr() string {
	s.seq++
	return fmt.Sprintf("198.51.%d.%d:41000", s.seq/250, s.seq%250+1)
}

func (s *BookingSuite) postQuote(req request.QuoteRequest) *nethttptest.ResponseRecorder {
	return httptest.PerformRequestFrom(s.T(), s.Router, s.nextAddr(), http.MethodPost, quoteURL, req, browserHeaders())
}

func (s *BookingSuite) challenge() string {
	w := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodGet, challengeURL, nil, browserHeaders())
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var view queries.ChallengeView
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &view))
	return view.Token
}

func (s *BookingSuite) quoteRequest(checkIn, checkOut string) request.QuoteRequest {
	return request.QuoteRequest{
		PropertyID: dbtest.DefaultPropertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     2,
		Contact: request.ContactRequest{
			Name:  "Ada Lovelace",
			Email: "ada@example.org",
			Phone: "+44 20 7946 0000",
		},
		FormRenderedAt: time.Now().Add(-20 * time.Second).UnixMilli(),
		ChallengeToken: s.challenge(),
		Clicks:         4,
		Keystrokes:     38,
	}
}

func (s *BookingSuite) requestQuote(checkIn, checkOut string) response.QuoteResponse {
	w := s.postQuote(s.quoteRequest(checkIn, checkOut))
	var res response.QuoteResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &res)
	s.Require().NotEqual(uuid.Nil, res.BookingID)
	return res
}

func (s *BookingSuite) checkout(bookingID uuid.UUID) response.CheckoutResponse {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, checkoutURL, request.CheckoutSessionRequest{BookingID: bookingID}, "")
	var res response.CheckoutResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &res)
	return res
}

func (s *BookingSuite) deliver(eventID, eventType, reference string) response.WebhookResponse {
	body, header := e2e.SignedEvent(s.Config.Gateway.WebhookSecret, eventID, eventType, reference)
	w := httptest.PerformRawRequest(s.Router, http.MethodPost, webhookURL, body, header)
	var res response.WebhookResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &res)
	return res
}

func (s *BookingSuite) booking(id uuid.UUID) queries.BookingView {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, fmt.Sprintf(bookingURL, id), nil, "")
	var view queries.BookingView
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &view)
	return view
}

func (s *BookingSuite) unavailable() []queries.RangeView {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, fmt.Sprintf(availabilityURL, dbtest.DefaultPropertyID), nil, "")
	var view queries.AvailabilityView
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &view)
	return view.Unavailable
}

func (s *BookingSuite) session(bookingID uuid.UUID, purpose string) string {
	ref, ok := s.Gateway.SessionFor(bookingID.String(), purpose)
	s.Require().True(ok, "no %s session opened for %s", purpose, bookingID)
	return ref
}

func (s *BookingSuite) TestFullLifecycle() {
	s.Run("Normal case: quote to confirmed, then cancelled and refunded", func() {
		t := s.T()
		checkIn, checkOut := stay(60, 3)

		quoted := s.requestQuote(checkIn, checkOut)
		require.Equal(t, quoted.Total, quoted.DepositAmount+quoted.BalanceAmount)
		require.Equal(t, 3, quoted.Nights)
		require.Empty(t, s.unavailable(), "a quote holds no dates")

		deposit := s.checkout(quoted.BookingID)
		require.Equal(t, "deposit", deposit.Purpose)
		require.Equal(t, "deposit_requested", deposit.BookingStatus)
		require.NotEmpty(t, deposit.SessionURL)

		want := []queries.RangeView{{From: checkIn, To: checkOut}}
		if diff := cmp.Diff(want, s.unavailable()); diff != "" {
			t.Errorf("unavailable mismatch (-want +got):\n%s", diff)
		}

		depositRef := s.session(quoted.BookingID, "deposit")
		require.Equal(t, "applied", s.deliver("evt_dep_1", "checkout.session.completed", depositRef).Outcome)
		require.Equal(t, "duplicate", s.deliver("evt_dep_1", "checkout.session.completed", depositRef).Outcome)
		require.Equal(t, "deposit_paid", s.booking(quoted.BookingID).Status)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(balanceURL, quoted.BookingID), nil, s.OwnerToken())
		var balance response.CheckoutResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &balance)
		require.Equal(t, "balance_requested", balance.BookingStatus)

		balanceRef := s.session(quoted.BookingID, "balance")
		require.Equal(t, "applied", s.deliver("evt_bal_1", "checkout.session.completed", balanceRef).Outcome)

		view := s.booking(quoted.BookingID)
		require.Equal(t, "confirmed", view.Status)
		require.Len(t, view.Payments, 2)
		for _, p := range view.Payments {
			require.Equal(t, "succeeded", p.Status)
		}

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, quoted.BookingID),
			request.CancelRequest{Reason: "guest cancelled"}, s.OwnerToken())
		var cancelled response.CancelResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		require.Equal(t, "cancelled", cancelled.Status)
		require.Equal(t, 2, cancelled.RefundsStarted)
		require.Empty(t, s.unavailable(), "cancelling releases the dates")

		s.deliver("evt_ref_1", "refund.succeeded", depositRef)
		require.Equal(t, "cancelled", s.booking(quoted.BookingID).Status)
		s.deliver("evt_ref_2", "refund.succeeded", balanceRef)
		require.Equal(t, "refunded", s.booking(quoted.BookingID).Status)
	})

	s.Run("Normal case: failed deposit releases the dates", func() {
		t := s.T()
		checkIn, checkOut := stay(90, 2)

		quoted := s.requestQuote(checkIn, checkOut)
		s.checkout(quoted.BookingID)
		ref := s.session(quoted.BookingID, "deposit")

		require.Equal(t, "applied", s.deliver("evt_fail_1", "checkout.session.failed", ref).Outcome)
		require.Equal(t, "deposit_failed", dbtest.BookingStatus(t, s.DB, quoted.BookingID))
		require.Empty(t, s.unavailable())
	})

	s.Run("Normal case: failed deposit is retried with a new session and paid", func() {
		t := s.T()
		checkIn, checkOut := stay(95, 2)

		quoted := s.requestQuote(checkIn, checkOut)
		s.checkout(quoted.BookingID)
		firstRef := s.session(quoted.BookingID, "deposit")
		require.Equal(t, "applied", s.deliver("evt_retry_fail", "checkout.session.failed", firstRef).Outcome)

		retry := s.checkout(quoted.BookingID)
		require.Equal(t, "deposit_requested", retry.BookingStatus)
		secondRef := s.session(quoted.BookingID, "deposit")
		require.NotEqual(t, firstRef, secondRef)
		require.Equal(t, 1, dbtest.CountBookedEntries(t, s.DB, dbtest.DefaultPropertyID))

		require.Equal(t, "applied", s.deliver("evt_retry_ok", "checkout.session.completed", secondRef).Outcome)
		view := s.booking(quoted.BookingID)
		require.Equal(t, "deposit_paid", view.Status)
		require.Len(t, view.Payments, 2)
	})

	s.Run("Exception case: deposit captured after cancellation is refunded", func() {
		t := s.T()
		checkIn, checkOut := stay(100, 2)

		quoted := s.requestQuote(checkIn, checkOut)
		s.checkout(quoted.BookingID)
		ref := s.session(quoted.BookingID, "deposit")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, quoted.BookingID),
			request.CancelRequest{Reason: "guest cancelled"}, s.OwnerToken())
		var cancelled response.CancelResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		require.Zero(t, cancelled.RefundsStarted)

		require.Equal(t, "ignored", s.deliver("evt_late_capture", "checkout.session.completed", ref).Outcome)
		require.Contains(t, s.Gateway.Refunds(), ref)

		view := s.booking(quoted.BookingID)
		require.Equal(t, "cancelled", view.Status)
		require.Len(t, view.Payments, 1)
		require.Equal(t, "succeeded", view.Payments[0].Status)

		s.deliver("evt_late_refund", "refund.succeeded", ref)
		require.Equal(t, "refunded", s.booking(quoted.BookingID).Status)
	})

	s.Run("Normal case: unknown session is acknowledged as unmatched", func() {
		require.Equal(s.T(), "unmatched", s.deliver("evt_x", "checkout.session.completed", "cs_unknown").Outcome)
	})
}

func (s *BookingSuite) TestDoubleBooking() {
	s.Run("Exception case: overlapping deposits race and exactly one wins", func() {
		t := s.T()
		checkIn, checkOut := stay(120, 4)

		const n = 6
		ids := make([]uuid.UUID, n)
		for i := range ids {
			ids[i] = s.requestQuote(checkIn, checkOut).BookingID
		}

		codes := make([]int, n)
		var wg sync.WaitGroup
		for i, id := range ids {
			wg.Add(1)
			go func(i int, id uuid.UUID) {
				defer wg.Done()
				body, _ := json.Marshal(request.CheckoutSessionRequest{BookingID: id})
				codes[i] = httptest.PerformRawRequest(s.Router, http.MethodPost, checkoutURL, body, nil).Code
			}(i, id)
		}
		wg.Wait()

		accepted, conflicts := 0, 0
		for _, c := range codes {
			switch c {
			case http.StatusOK:
				accepted++
			case http.StatusConflict:
				conflicts++
			}
		}
		require.Equal(t, 1, accepted, "codes: %v", codes)
		require.Equal(t, n-1, conflicts, "codes: %v", codes)
		require.Equal(t, 1, dbtest.CountBookedEntries(t, s.DB, dbtest.DefaultPropertyID))
	})

	s.Run("Exception case: quote for held dates is refused with the conflicting range", func() {
		t := s.T()
		checkIn, checkOut := stay(150, 3)

		first := s.requestQuote(checkIn, checkOut)
		s.checkout(first.BookingID)

		w := s.postQuote(s.quoteRequest(checkIn, checkOut))
		detail := httptest.AssertErrorCode(t, w, http.StatusConflict, "date_unavailable")
		require.Contains(t, string(detail), checkIn)
	})
}

func (s *BookingSuite) TestScreening() {
	s.Run("Exception case: honeypot is rejected with a generic message", func() {
		t := s.T()
		checkIn, checkOut := stay(45, 2)

		req := s.quoteRequest(checkIn, checkOut)
		req.Website = "http://spam.example"
		w := s.postQuote(req)
		httptest.AssertErrorResponse(t, w, http.StatusTooManyRequests, "try again later")
		require.NotContains(t, w.Body.String(), "honeypot")
	})

	s.Run("Exception case: operator endpoints need a token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, fmt.Sprintf(cancelURL, uuid.New()), nil, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}
