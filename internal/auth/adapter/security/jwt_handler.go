package security

import (
	"context"
	"errors"
	"time"

	"github.com/putuyoga/privyr-lead/internal/auth/config"
	"github.com/putuyoga/privyr-lead/internal/auth/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// JWTokenService issues and verifies HS256 owner tokens.
type JWTokenService struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	leeway    time.Duration
	now       func() time.Time
}

// NewJWTokenService creates a new JWT token service
func NewJWTokenService(cfg *config.Config) (*JWTokenService, error) {
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt secret key cannot be empty")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, errors.New("jwt access token TTL must be positive")
	}

	return &JWTokenService{
		secretKey: []byte(cfg.JWTSecretKey),
		issuer:    cfg.JWTIssuer,
		ttl:       cfg.AccessTokenTTL,
		leeway:    cfg.Leeway,
		now:       time.Now,
	}, nil
}

// GenerateToken signs a token whose subject is userID
func (s *JWTokenService) GenerateToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id cannot be empty")
	}

	now := s.now()
	claims := &model.OwnerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken verifies the signature and time claims and returns the claims
func (s *JWTokenService) ValidateToken(ctx context.Context, tokenString string) (*model.OwnerClaims, error) {
	if tokenString == "" {
		return nil, model.ErrTokenMissing
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &model.OwnerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}

	if !token.Valid || claims.UserID() == "" {
		return nil, model.ErrTokenInvalid
	}
	return claims, nil
}
