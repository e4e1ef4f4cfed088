//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/jwt"
	"booking-engine/internal/usecase"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "operator-test-secret"

func TestAuthenticate(t *testing.T) {
	svc := jwt.NewService(secret, time.Hour)
	auth := usecase.NewOperatorAuthenticator(svc)

	t.Run("owner token", func(t *testing.T) {
		id := uuid.New()
		token, err := svc.GenerateToken(id, jwt.RoleOwner)
		require.NoError(t, err)

		op, err := auth.Authenticate(token)
		require.NoError(t, err)
		assert.Equal(t, id, op.ID)
		assert.True(t, op.CanManage())
	})

	t.Run("guest token authenticates but cannot manage", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), jwt.RoleGuest)
		require.NoError(t, err)

		op, err := auth.Authenticate(token)
		require.NoError(t, err)
		assert.False(t, op.CanManage())
	})

	t.Run("subject fallback", func(t *testing.T) {
		id := uuid.New()
		claims := gojwt.MapClaims{
			"sub":  id.String(),
			"role": "admin",
			"exp":  time.Now().Add(time.Minute).Unix(),
		}
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)

		op, err := auth.Authenticate(token)
		require.NoError(t, err)
		assert.Equal(t, id, op.ID)
		assert.Equal(t, jwt.RoleAdmin, op.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := jwt.NewService(secret, -time.Minute).GenerateToken(uuid.New(), jwt.RoleOwner)
		require.NoError(t, err)

		_, err = auth.Authenticate(token)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrUnauthorized))
		assert.True(t, errs.Is(err, jwt.ErrExpiredToken))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewService("other", time.Hour).GenerateToken(uuid.New(), jwt.RoleOwner)
		require.NoError(t, err)

		_, err = auth.Authenticate(token)
		assert.True(t, errs.Is(err, errs.ErrUnauthorized))
	})
}
