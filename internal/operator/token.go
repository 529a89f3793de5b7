// Package operator handles operator authentication and the operator
// alert console endpoints.
package operator

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "enrolld/pkg/domain-errors"
	"enrolld/pkg/requestcontext"
)

const issuer = "enrolld"

// TokenClaims are the JWT claims carried by operator tokens.
type TokenClaims struct {
	OperatorID string `json:"operator_id"`
	Role       string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 operator tokens.
type TokenService struct {
	signingKey []byte
	tokenTTL   time.Duration
}

// NewTokenService creates a token service with the given signing key.
func NewTokenService(signingKey string, tokenTTL time.Duration) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// Generate issues a signed token for the operator.
func (s *TokenService) Generate(ctx context.Context, operatorID, role string) (string, error) {
	if operatorID == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "operator id cannot be empty")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	now := requestcontext.Now(ctx)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		OperatorID: operatorID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        hex.EncodeToString(b),
		},
	})

	return token.SignedString(s.signingKey)
}

// Validate parses and verifies a token, returning its claims.
func (s *TokenService) Validate(tokenString string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Issuer != issuer {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
	}
	return claims, nil
}
