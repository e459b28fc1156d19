package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bellacita/salon-api/internal/booking"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the authenticated specialist's identity.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

func signToken(secret []byte, sp *booking.Specialist, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: sp.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sp.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken parses and validates a session token, returning the specialist
// id it was issued for.
func VerifyToken(secret []byte, token string) (uuid.UUID, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}
