package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/requestcontext"
)

// Issuer is the iss claim of every token the server mints.
const Issuer = "jotter"

// AccessTokenClaims carries the credential ID as the registered subject.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 bearer tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
}

func NewJWTService(signingKey, issuer string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
	}
}

func (s *JWTService) TokenTTL() time.Duration { return s.tokenTTL }

// GenerateAccessToken signs a token for subject valid from the request time.
func (s *JWTService) GenerateAccessToken(ctx context.Context, subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, dErrors.New(dErrors.CodeBadRequest, "subject cannot be empty")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, fmt.Errorf("generate jti: %w", err)
	}
	now := requestcontext.Now(ctx)
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        hex.EncodeToString(b),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*AccessTokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*AccessTokenClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims, nil
}
