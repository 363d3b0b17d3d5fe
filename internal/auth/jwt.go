// Package auth implements credential handling for the admin dashboard: access
// token issuance and verification plus the login and registration endpoints.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// JwtIssuer identifies tokens minted by this service.
const JwtIssuer = "brainiax-backend"

// TokenTTL is how long an issued access token stays valid.
const TokenTTL = 8 * time.Hour

// AdminClaims carries the authenticated admin's identity inside the token.
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken signs an access token embedding the admin's id and username.
func GenerateToken(secret string, id uuid.UUID, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    JwtIssuer,
			Subject:   id.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}

// ValidateToken verifies the signature and expiry of an access token and
// returns its claims.
func ValidateToken(secret, encoded string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(encoded, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token")
	}
	return claims, nil
}
