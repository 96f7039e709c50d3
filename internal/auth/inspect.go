package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the profile claims the API embeds in its bearer tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// InspectClaims decodes a bearer token's claims without verifying the
// signature. The client holds no signing secret; the server remains the
// authority and the claims are used only to avoid doomed requests and to
// gate admin-only UI.
func InspectClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsExpired reports whether the token carries an exp claim in the past.
// Malformed tokens count as expired.
func IsExpired(tokenString string) bool {
	claims, err := InspectClaims(tokenString)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}

// IsAdmin reports whether the token's role claim grants admin access.
func IsAdmin(tokenString string) bool {
	claims, err := InspectClaims(tokenString)
	if err != nil {
		return false
	}
	return claims.Role == "admin"
}
