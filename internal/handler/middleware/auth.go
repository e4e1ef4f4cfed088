package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/jwt"
	"booking-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

const ctxOperatorKey = "operator"

type AuthMiddleware struct {
	authenticator usecase.OperatorAuthenticator
}

func NewAuthMiddleware(authenticator usecase.OperatorAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthorized, "Access token required", nil)
			return
		}

		op, err := m.authenticator.Authenticate(token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "operator token rejected", "error", err.Error(), "path", c.FullPath())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxOperatorKey, op)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...jwt.Role) gin.HandlerFunc {
	allowed := make(map[jwt.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		op, ok := GetOperator(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthorized, "Access token required", nil)
			return
		}
		if _, ok := allowed[op.Role]; !ok {
			httperr.AbortWithError(c, http.StatusForbidden,
				errs.Markf(errs.ErrUnauthorized, "role %s may not manage bookings", op.Role), "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

func GetOperator(c *gin.Context) (usecase.Operator, bool) {
	v, exists := c.Get(ctxOperatorKey)
	if !exists {
		return usecase.Operator{}, false
	}
	op, ok := v.(usecase.Operator)
	return op, ok
}
