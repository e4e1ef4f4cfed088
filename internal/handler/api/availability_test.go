//go:build unit

package api_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/handler/api"
	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/httptest"
	"booking-engine/tests/common/testutil"
	commandsmock "booking-engine/tests/mock/commands"
	queriesmock "booking-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockQueries  *queriesmock.MockAvailabilityQueries
	mockCommands *commandsmock.MockAvailabilityCommands
	propertyID   uuid.UUID
}

func (s *AvailabilityHandlerTestSuite) SetupSuite() {
	s.Require().NoError(reqdto.RegisterValidators())
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.mockCommands = commandsmock.NewMockAvailabilityCommands(s.mockCtrl)
	h := api.NewAvailabilityHandler(s.mockQueries, s.mockCommands)
	s.propertyID = uuid.New()

	s.router.GET("/properties/:id/availability", h.Get)
	s.router.POST("/properties/:id/availability", h.CreateEntry)
	s.router.DELETE("/properties/:id/availability/:entryId", h.DeleteEntry)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) url(suffix string) string {
	return "/properties/" + s.propertyID.String() + "/availability" + suffix
}

// ================================================================================
// TestGet
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestGet() {
	s.Run("success: passes the parsed window through", func() {
		view := &queries.AvailabilityView{
			PropertyID:  s.propertyID,
			From:        "2026-06-01",
			To:          "2026-07-01",
			Unavailable: []queries.RangeView{{From: "2026-06-05", To: "2026-06-07"}},
		}
		s.mockQueries.EXPECT().GetAvailability(gomock.Any(), s.propertyID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, from, to *time.Time) (*queries.AvailabilityView, error) {
				s.Require().NotNil(from)
				s.Require().NotNil(to)
				s.Equal("2026-06-01", from.Format(availability.DateLayout))
				s.Equal("2026-07-01", to.Format(availability.DateLayout))
				return view, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.url("?from=2026-06-01&to=2026-07-01"), nil, "")
		var got queries.AvailabilityView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal(view.Unavailable, got.Unavailable)
	})

	s.Run("success: omitted bounds are nil", func() {
		s.mockQueries.EXPECT().GetAvailability(gomock.Any(), s.propertyID, gomock.Nil(), gomock.Nil()).
			Return(&queries.AvailabilityView{PropertyID: s.propertyID}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.url(""), nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: malformed date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.url("?from=2026-13-01"), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})

	s.Run("error: malformed property id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/properties/nope/availability", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid property id")
	})

	s.Run("error: window too long", func() {
		s.mockQueries.EXPECT().GetAvailability(gomock.Any(), s.propertyID, gomock.Any(), gomock.Any()).
			Return(nil, queries.ErrWindowTooLong)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.url("?from=2026-01-01&to=2029-01-01"), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "availability window too long")
	})

	s.Run("error: unknown property", func() {
		s.mockQueries.EXPECT().GetAvailability(gomock.Any(), s.propertyID, gomock.Any(), gomock.Any()).
			Return(nil, queries.ErrPropertyNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, s.url(""), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "property not found")
	})
}

// ================================================================================
// TestCreateEntry
// ================================================================================

type testCaseEntry struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *AvailabilityHandlerTestSuite) TestCreateEntry() {
	reqBody := builder.NewEntryRequestBuilder().BuildDTO()
	entry, err := availability.NewManualEntry(s.propertyID, availability.KindBlackout,
		availability.MustDateRange(time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 27, 0, 0, 0, 0, time.UTC)),
		"family christmas", nil, time.Now())
	s.Require().NoError(err)

	s.Run("success: returns 201 with the entry", func() {
		s.mockCommands.EXPECT().CreateEntry(gomock.Any(), s.propertyID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, in commands.CreateEntryInput) (*availability.Entry, error) {
				s.Equal(availability.KindBlackout, in.Kind)
				s.Equal("2026-12-24/2026-12-27", in.Dates.String())
				return entry, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, s.url(""), reqBody, "")
		var got resdto.EntryResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &got)
		s.Equal(entry.ID(), got.ID)
		s.Equal("blackout", got.Kind)
		s.Equal("2026-12-24", got.From)
	})

	cases := []testCaseEntry{
		{name: "hold is accepted", mutate: testutil.Field("kind", "hold"), expectCode: http.StatusCreated},
		{name: "booked kind is refused", mutate: testutil.Field("kind", "booked"), expectCode: http.StatusBadRequest},
		{name: "missing kind", mutate: testutil.Field("kind", nil), expectCode: http.StatusBadRequest},
		{name: "missing from", mutate: testutil.Field("from", nil), expectCode: http.StatusBadRequest},
		{name: "malformed to", mutate: testutil.Field("to", "27/12/2026"), expectCode: http.StatusBadRequest},
		{name: "notes at 500 chars", mutate: testutil.Field("notes", strings.Repeat("n", 500)), expectCode: http.StatusCreated},
		{name: "notes at 501 chars", mutate: testutil.Field("notes", strings.Repeat("n", 501)), expectCode: http.StatusBadRequest},
		{name: "end before start", mutate: testutil.Field("to", "2026-12-20"), expectCode: http.StatusBadRequest},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			if tc.expectCode == http.StatusCreated {
				s.mockCommands.EXPECT().CreateEntry(gomock.Any(), s.propertyID, gomock.Any()).Return(entry, nil)
			}
			body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, s.url(""), body, "")
			s.Equal(tc.expectCode, rec.Code, rec.Body.String())
		})
	}

	s.Run("error: unknown property", func() {
		s.mockCommands.EXPECT().CreateEntry(gomock.Any(), s.propertyID, gomock.Any()).Return(nil, queries.ErrPropertyNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, s.url(""), reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "property not found")
	})
}

// ================================================================================
// TestDeleteEntry
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestDeleteEntry() {
	entryID := uuid.New()

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().DeleteEntry(gomock.Any(), s.propertyID, entryID).Return(nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, s.url("/"+entryID.String()), nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: missing entry", func() {
		s.mockCommands.EXPECT().DeleteEntry(gomock.Any(), s.propertyID, entryID).Return(commands.ErrEntryNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, s.url("/"+entryID.String()), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "availability entry not found")
	})

	s.Run("error: booked entries belong to the lifecycle", func() {
		s.mockCommands.EXPECT().DeleteEntry(gomock.Any(), s.propertyID, entryID).Return(availability.ErrBookedEntryNotManual)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, s.url("/"+entryID.String()), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "booked entries")
	})

	s.Run("error: malformed entry id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, s.url("/42"), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid entry id")
	})
}
