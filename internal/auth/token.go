package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// DefaultTokenTTL is the lifetime of a session token when none is configured.
const DefaultTokenTTL = 8 * time.Hour

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the manager that reads time from now.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	clone := *tm
	clone.now = now
	return &clone
}

// Claims describes JWT payload. The role is trusted as issued; a role change
// takes effect on the next login.
type Claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Name   string      `json:"name"`
	jwt.RegisteredClaims
}

// Identity returns the identity embedded in the claims.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{ID: c.UserID, Email: c.Email, Role: c.Role, Name: c.Name}
}

// GenerateToken builds and signs a JWT for the identity.
func (tm *TokenManager) GenerateToken(identity domain.Identity) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role,
		Name:   identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature and expiry and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	},
		jwt.WithTimeFunc(tm.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, errors.New("incomplete token claims")
	}
	return claims, nil
}
