package model

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing = errors.New("authorization token is missing")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
	ErrNotOwner     = errors.New("token subject does not own the resource")
)

// OwnerClaims are the claims of a token presented by a lead owner. The
// subject is the owner's user id.
type OwnerClaims struct {
	jwt.RegisteredClaims
}

// UserID returns the authenticated user id.
func (c *OwnerClaims) UserID() string {
	return c.Subject
}
