package jwttoken

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "jotter/pkg/domain-errors"
	"jotter/pkg/requestcontext"
)

var jwtService = NewJWTService("test-signing-key", "jotter", 15*time.Minute)

func Test_GenerateAccessToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	ctx := requestcontext.WithTime(context.Background(), now)

	token, expiresAt, err := jwtService.GenerateAccessToken(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, now.Add(15*time.Minute), expiresAt)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "jotter", claims.Issuer)
}

func Test_GenerateAccessToken_EmptySubject(t *testing.T) {
	_, _, err := jwtService.GenerateAccessToken(context.Background(), "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.ErrorContains(t, err, "invalid token")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	// Issued an hour ago with a 15 minute lifetime.
	ctx := requestcontext.WithTime(context.Background(), time.Now().Add(-time.Hour))
	token, _, err := jwtService.GenerateAccessToken(ctx, "a@x.com")
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorContains(t, err, "token expired")
}

func Test_ValidateToken_WrongKeyOrIssuer(t *testing.T) {
	other := NewJWTService("another-key", "jotter", time.Minute)
	token, _, err := other.GenerateAccessToken(context.Background(), "a@x.com")
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.ErrorContains(t, err, "invalid token")

	foreign := NewJWTService("test-signing-key", "someone-else", time.Minute)
	token, _, err = foreign.GenerateAccessToken(context.Background(), "a@x.com")
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.ErrorContains(t, err, "invalid token")
}

func Test_ValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com", Issuer: "jotter"},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.Error(t, err)
}

func TestMiddlewareAdapter(t *testing.T) {
	adapter := NewMiddlewareAdapter(jwtService)
	token, _, err := jwtService.GenerateAccessToken(context.Background(), "a@x.com")
	require.NoError(t, err)

	claims, err := adapter.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.NotEmpty(t, claims.JTI)

	_, err = adapter.ValidateToken("garbage")
	assert.Error(t, err)
}
