package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers bad signature, expiry and malformed tokens alike;
// callers must not leak which one it was.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the JWT payload: user identity plus the registered claims
// (expiry, issue time, token id).
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256-signed session tokens.
// The scheme is stateless: there is no server-side session store.
type TokenManager struct {
	secretKey     string
	tokenDuration time.Duration
}

func NewTokenManager(secretKey string, tokenDuration time.Duration) *TokenManager {
	if tokenDuration <= 0 {
		tokenDuration = 24 * time.Hour
	}
	return &TokenManager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
	}
}

// Generate issues a signed token carrying the user identity and an expiry.
func (m *TokenManager) Generate(userID int64, email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.tokenDuration)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a token, returning its claims.
func (m *TokenManager) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
