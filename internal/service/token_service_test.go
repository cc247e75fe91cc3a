package service

import (
	"testing"
	"time"

	"pix-gateway/internal/core/domain"
	"pix-gateway/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-key-for-unit-tests"

func testClaims(role domain.ActorType) ports.TokenClaims {
	return ports.TokenClaims{TenantID: uuid.New(), UserID: uuid.New(), Role: role}
}

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, 12*time.Hour, "pix-gateway")

	for _, role := range []domain.ActorType{domain.ActorTypeUser, domain.ActorTypeAdmin} {
		in := testClaims(role)

		tokenStr, expiresAt, err := svc.Generate(in)
		require.NoError(t, err)
		assert.NotEmpty(t, tokenStr)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := svc.Validate(tokenStr)
		require.NoError(t, err)
		assert.Equal(t, in, *claims)
	}
}

func TestJWTTokenService_GenerateRejectsBadClaims(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, time.Hour, "pix-gateway")

	_, _, err := svc.Generate(testClaims(domain.ActorTypeSystem))
	assert.Error(t, err)

	_, _, err = svc.Generate(ports.TokenClaims{UserID: uuid.New(), Role: domain.ActorTypeUser})
	assert.Error(t, err)
}

func TestJWTTokenService_ExpiredToken(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, -1*time.Hour, "pix-gateway")

	tokenStr, _, err := svc.Generate(testClaims(domain.ActorTypeUser))
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTTokenService_WrongIssuer(t *testing.T) {
	tokenStr, _, err := NewJWTTokenService(testJWTSecret, time.Hour, "someone-else").Generate(testClaims(domain.ActorTypeAdmin))
	require.NoError(t, err)

	_, err = NewJWTTokenService(testJWTSecret, time.Hour, "pix-gateway").Validate(tokenStr)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestJWTTokenService_InvalidSignature(t *testing.T) {
	svc1 := NewJWTTokenService("secret-1", 24*time.Hour, "issuer")
	svc2 := NewJWTTokenService("secret-2", 24*time.Hour, "issuer")

	tokenStr, _, err := svc1.Generate(testClaims(domain.ActorTypeUser))
	require.NoError(t, err)

	_, err = svc2.Validate(tokenStr)
	assert.Error(t, err, "token signed with different secret should fail")
}

func TestJWTTokenService_RejectsUnknownRole(t *testing.T) {
	claims := gatewayClaims{
		TenantID: uuid.NewString(),
		Role:     "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "pix-gateway",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = NewJWTTokenService(testJWTSecret, time.Hour, "pix-gateway").Validate(tokenStr)
	assert.Error(t, err)
}

func TestJWTTokenService_InvalidTokenString(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, 24*time.Hour, "issuer")

	_, err := svc.Validate("not.a.valid.jwt")
	assert.Error(t, err)

	_, err = svc.Validate("")
	assert.Error(t, err)
}
