package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/billing-portal/internal/domain"
)

var testIdentity = domain.Identity{
	ID:    "6f1c1c3e-8d8e-4d55-9a55-2a6bb8a0b0c1",
	Email: "juan@example.com",
	Role:  domain.RoleCustomer,
	Name:  "Juan Hernandez",
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", 0)

	token, exp, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, claims.Identity())
}

func TestTokenExpiresAfterEightHours(t *testing.T) {
	issued := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	tm := NewTokenManager("secret", 8*time.Hour).WithClock(fixedClock(issued))

	token, exp, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(8*time.Hour), exp)

	_, err = tm.WithClock(fixedClock(issued.Add(8*time.Hour - time.Second))).ParseToken(token)
	assert.NoError(t, err)

	_, err = tm.WithClock(fixedClock(issued.Add(8*time.Hour + time.Second))).ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenManager("other-secret", time.Hour).GenerateToken(testIdentity)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnsignedToken(t *testing.T) {
	claims := &Claims{
		UserID: testIdentity.ID,
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	identity := testIdentity
	identity.Role = "superuser"
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.GenerateToken(identity)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).ParseToken("not.a.token")
	assert.Error(t, err)
}
