//go:build e2e

package availability_test

import (
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/handler/dto/request"
	"booking-engine/internal/handler/dto/response"
	"booking-engine/internal/usecase/queries"
	"booking-engine/tests/common/dbtest"
	"booking-engine/tests/common/httptest"
	"booking-engine/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	availabilityURL = "/api/properties/%s/availability"
	entryURL        = "/api/properties/%s/availability/%s"
	previewURL      = "/api/properties/%s/quote?check_in=%s&check_out=%s&guests=%d"
)

type AvailabilitySuite struct {
	e2e.SharedSuite
}

func TestAvailabilitySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AvailabilitySuite))
}

func daysAhead(n int) time.Time {
	return time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, n)
}

func (s *AvailabilitySuite) unavailable(propertyID uuid.UUID) queries.AvailabilityView {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, fmt.Sprintf(availabilityURL, propertyID), nil, "")
	var view queries.AvailabilityView
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &view)
	return view
}

func (s *AvailabilitySuite) TestOperatorEntries() {
	s.Run("Normal case: blackout created by the owner blocks dates until deleted", func() {
		t := s.T()
		from := daysAhead(30).Format(availability.DateLayout)
		to := daysAhead(33).Format(availability.DateLayout)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(availabilityURL, dbtest.DefaultPropertyID),
			request.CreateEntryRequest{Kind: "blackout", From: from, To: to, Notes: "boiler service"}, s.OwnerToken())
		var entry response.EntryResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &entry)
		require.Equal(t, "blackout", entry.Kind)

		require.Equal(t, []queries.RangeView{{From: from, To: to}}, s.unavailable(dbtest.DefaultPropertyID).Unavailable)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(previewURL, dbtest.DefaultPropertyID, from, to, 2), nil, "")
		httptest.AssertErrorCode(t, w, http.StatusConflict, "date_unavailable")

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf(entryURL, dbtest.DefaultPropertyID, entry.ID), nil, s.OwnerToken())
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, s.unavailable(dbtest.DefaultPropertyID).Unavailable)
	})

	s.Run("Normal case: seeded blackouts merge with adjacent ones", func() {
		t := s.T()
		a, b, c := daysAhead(40), daysAhead(42), daysAhead(45)
		dbtest.CreateBlackout(t, s.DB, dbtest.DefaultPropertyID, a.Format(availability.DateLayout), b.Format(availability.DateLayout))
		dbtest.CreateBlackout(t, s.DB, dbtest.DefaultPropertyID, b.Format(availability.DateLayout), c.Format(availability.DateLayout))

		want := []queries.RangeView{{From: a.Format(availability.DateLayout), To: c.Format(availability.DateLayout)}}
		require.Equal(t, want, s.unavailable(dbtest.DefaultPropertyID).Unavailable)
	})

	s.Run("Exception case: guests cannot create entries", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, fmt.Sprintf(availabilityURL, dbtest.DefaultPropertyID),
			request.CreateEntryRequest{Kind: "blackout", From: "2030-01-01", To: "2030-01-02"}, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

func (s *AvailabilitySuite) TestCalendarFeed() {
	s.Run("Normal case: external feed events show as unavailable", func() {
		t := s.T()
		start, end := daysAhead(200), daysAhead(204)
		feed := fmt.Sprintf("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nBEGIN:VEVENT\r\nUID:ext-1@airbnb\r\nDTSTART;VALUE=DATE:%s\r\nDTEND;VALUE=DATE:%s\r\nSUMMARY:Reserved\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n",
			start.Format("20060102"), end.Format("20060102"))
		srv := nethttptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/calendar")
			_, _ = w.Write([]byte(feed))
		}))
		defer srv.Close()

		propertyID := dbtest.CreateTestProperty(t, s.DB, "Loft", 9000, 12000, 2)
		dbtest.SetCalendarFeed(t, s.DB, propertyID, srv.URL+"/"+propertyID.String()+".ics")

		view := s.unavailable(propertyID)
		require.False(t, view.FeedSkipped)
		require.Equal(t, []queries.RangeView{{From: start.Format(availability.DateLayout), To: end.Format(availability.DateLayout)}}, view.Unavailable)
	})

	s.Run("Normal case: unreachable feed is skipped", func() {
		t := s.T()
		propertyID := dbtest.CreateTestProperty(t, s.DB, "Barn", 9000, 12000, 4)
		dbtest.SetCalendarFeed(t, s.DB, propertyID, "http://127.0.0.1:1/"+propertyID.String()+".ics")

		view := s.unavailable(propertyID)
		require.True(t, view.FeedSkipped)
		require.Empty(t, view.Unavailable)
	})

	s.Run("Exception case: party larger than the property is refused", func() {
		t := s.T()
		propertyID := dbtest.CreateTestProperty(t, s.DB, "Hut", 5000, 6000, 2)
		in, out := daysAhead(20).Format(availability.DateLayout), daysAhead(22).Format(availability.DateLayout)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(previewURL, propertyID, in, out, 3), nil, "")
		httptest.AssertErrorCode(t, w, http.StatusUnprocessableEntity, "capacity_exceeded")
	})
}
