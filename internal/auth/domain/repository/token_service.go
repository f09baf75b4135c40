package repository

import (
	"context"

	"github.com/putuyoga/privyr-lead/internal/auth/domain/model"
)

// TokenService issues and verifies owner tokens.
type TokenService interface {
	GenerateToken(ctx context.Context, userID string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*model.OwnerClaims, error)
}
