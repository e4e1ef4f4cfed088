//go:build unit

package middleware_test

import (
	"net/http"
	"testing"

	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/jwt"
	"booking-engine/internal/usecase"
	"booking-engine/tests/common/httptest"
	usecasemock "booking-engine/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	auth      *usecasemock.MockOperatorAuthenticator
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.mockCtrl = gomock.NewController(s.T())
	s.auth = usecasemock.NewMockOperatorAuthenticator(s.mockCtrl)

	auth := middleware.NewAuthMiddleware(s.auth)
	s.router.POST("/operator", auth.RequireAuth(), auth.RequireRole(jwt.RoleOwner, jwt.RoleAdmin), func(c *gin.Context) {
		op, _ := middleware.GetOperator(c)
		c.JSON(http.StatusOK, gin.H{"operator_id": op.ID, "role": op.Role})
	})
}

func (s *AuthMiddlewareTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) TestRequireAuth() {
	userID := uuid.New()

	s.Run("owner passes", func() {
		s.auth.EXPECT().Authenticate("owner-token").Return(usecase.Operator{ID: userID, Role: jwt.RoleOwner}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/operator", nil, "owner-token")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), userID.String())
	})

	s.Run("missing token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/operator", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("invalid token", func() {
		s.auth.EXPECT().Authenticate("stale").Return(usecase.Operator{}, errs.Mark(jwt.ErrExpiredToken, errs.ErrUnauthorized))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/operator", nil, "stale")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("guest tokens are refused on operator routes", func() {
		s.auth.EXPECT().Authenticate("guest-token").Return(usecase.Operator{ID: userID, Role: jwt.RoleGuest}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/operator", nil, "guest-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("scheme is case insensitive", func() {
		s.auth.EXPECT().Authenticate("admin-token").Return(usecase.Operator{ID: userID, Role: jwt.RoleAdmin}, nil)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/operator", nil,
			http.Header{"Authorization": []string{"bearer admin-token"}})
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"role":"admin"`)
	})

	s.Run("basic auth is not a bearer token", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/operator", nil,
			http.Header{"Authorization": []string{"Basic dXNlcjpwYXNz"}})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})
}
