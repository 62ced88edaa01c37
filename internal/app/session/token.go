package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenIssuer identifies the issuer of session cookie tokens.
const tokenIssuer = "Voyago-Server"

// cookieClaims is the signed payload carried by the session cookie.
// It contains only the opaque session ID; all session state stays server-side.
type cookieClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// generateToken signs a cookie token for the given session ID.
func generateToken(id uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &cookieClaims{
		SID: id.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

// parseToken validates a cookie token and extracts the session ID.
func parseToken(tokenString string, secret []byte) (uuid.UUID, error) {
	claims := &cookieClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})

	if err != nil {
		return uuid.Nil, err
	}

	if !token.Valid {
		return uuid.Nil, errors.New("invalid or expired session token")
	}

	id, err := uuid.Parse(claims.SID)
	if err != nil {
		return uuid.Nil, errors.New("malformed session id in token")
	}

	return id, nil
}
