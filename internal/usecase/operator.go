package usecase

import (
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/pkg/jwt"

	"github.com/google/uuid"
)

// Operator is whoever presented a valid bearer token. Only owners and admins may
// manage bookings and the calendar.
type Operator struct {
	ID   uuid.UUID
	Role jwt.Role
}

func (o Operator) CanManage() bool {
	return o.Role == jwt.RoleOwner || o.Role == jwt.RoleAdmin
}

type OperatorAuthenticator interface {
	Authenticate(token string) (Operator, error)
}

type jwtAuthenticator struct {
	jwtService *jwt.Service
}

func NewOperatorAuthenticator(jwtService *jwt.Service) OperatorAuthenticator {
	return &jwtAuthenticator{jwtService: jwtService}
}

// Tokens minted by the external auth service may carry the id only in "sub".
func (a *jwtAuthenticator) Authenticate(token string) (Operator, error) {
	claims, err := a.jwtService.ValidateToken(token)
	if err != nil {
		return Operator{}, errs.Mark(err, errs.ErrUnauthorized)
	}

	id := claims.UserID
	if id == uuid.Nil {
		if id, err = uuid.Parse(claims.Subject); err != nil {
			return Operator{}, errs.Mark(jwt.ErrInvalidToken, errs.ErrUnauthorized)
		}
	}

	role, err := jwt.ParseRole(claims.Role)
	if err != nil {
		return Operator{}, errs.Mark(err, errs.ErrUnauthorized)
	}
	return Operator{ID: id, Role: role}, nil
}
